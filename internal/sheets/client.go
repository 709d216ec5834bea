// Package sheets backs the transaction store, both ledgers, and the rule
// store with tabs of a single Google spreadsheet. The spreadsheet offers
// no transactions and no row locking, so every multi-row guarantee in the
// system is built above this package, one row at a time.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for one spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient creates a Client for the given spreadsheet. Credentials come
// from the supplied options, or Application Default Credentials when none
// are given.
func NewClient(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Client, error) {
	opts = append(opts, option.WithScopes(sheetsapi.SpreadsheetsScope))
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadRows returns every populated row of tab as strings.
func (c *Client) ReadRows(ctx context.Context, tab string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading tab %s: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow appends one row to the end of tab.
func (c *Client) AppendRow(ctx context.Context, tab string, row []string) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toCells(row)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tab, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to tab %s: %w", tab, err)
	}
	return nil
}

// UpdateRow overwrites one row of tab. rowNum is 1-based, counting the
// header as row 1.
func (c *Client) UpdateRow(ctx context.Context, tab string, rowNum int, row []string) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toCells(row)}}
	rng := fmt.Sprintf("%s!A%d", tab, rowNum)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", rng, err)
	}
	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
