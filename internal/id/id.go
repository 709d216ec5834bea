package id

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ForTransaction derives the natural key for a bank statement row from its
// content: date, both amounts, and the raw description. The same row always
// produces the same key, which is what makes re-importing an overlapping
// statement a no-op.
func ForTransaction(date time.Time, withdrawal, deposit decimal.Decimal, description string) string {
	canonical := strings.Join([]string{
		date.Format("20060102"),
		withdrawal.String(),
		deposit.String(),
		strings.TrimSpace(description),
	}, "|")

	sum := sha256.Sum256([]byte(canonical))
	return "tx_" + date.Format("20060102") + "_" + hex.EncodeToString(sum[:])[:12]
}

// DuplicateKey builds the amount+date+description key used to detect exact
// duplicates of already-confirmed transactions during suppression.
func DuplicateKey(date time.Time, amount decimal.Decimal, description string) string {
	return strings.Join([]string{
		date.Format("20060102"),
		amount.String(),
		strings.TrimSpace(description),
	}, "|")
}
