package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("은혜교회")
	cfg.Sheets.SpreadsheetID = "1AbCdEf"
	cfg.Suppression.Patterns = []string{"수수료면제"}

	path := filepath.Join(t.TempDir(), "chaegbu.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Church.Name, got.Church.Name)
	assert.Equal(t, "1AbCdEf", got.Sheets.SpreadsheetID)
	assert.Equal(t, cfg.Sheets.TransactionsTab, got.Sheets.TransactionsTab)
	assert.Equal(t, cfg.Matching.FallbackIncomeCode, got.Matching.FallbackIncomeCode)
	assert.Equal(t, cfg.Matching.SuggestionLimit, got.Matching.SuggestionLimit)
	assert.Equal(t, cfg.Suppression.TransferPatterns, got.Suppression.TransferPatterns)
	assert.Equal(t, []string{"수수료면제"}, got.Suppression.Patterns)
	assert.Equal(t, cfg.Server.Listen, got.Server.Listen)
}

func TestDefaults(t *testing.T) {
	cfg := Default("은혜교회")

	assert.Equal(t, "은혜교회", cfg.Church.Name)
	assert.Empty(t, cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "10", cfg.Matching.FallbackIncomeCode)
	assert.Equal(t, 5, cfg.Matching.SuggestionLimit)
	assert.Contains(t, cfg.Suppression.TransferPatterns, "대체")
	assert.Equal(t, ":8080", cfg.Server.Listen)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("은혜교회")
	path := filepath.Join(t.TempDir(), "chaegbu.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: 은혜교회")
	assert.Contains(t, contents, "fallback_income_code: \"10\"")
	assert.Contains(t, contents, "listen: :8080")
}
