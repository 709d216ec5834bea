package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level chaegbu.yaml configuration.
type Config struct {
	Church      ChurchConfig      `yaml:"church"`
	Sheets      SheetsConfig      `yaml:"sheets"`
	Matching    MatchingConfig    `yaml:"matching"`
	Suppression SuppressionConfig `yaml:"suppression"`
	Server      ServerConfig      `yaml:"server"`
}

// ChurchConfig identifies the congregation the books belong to.
type ChurchConfig struct {
	Name string `yaml:"name"`
}

// SheetsConfig points at the backing spreadsheet. An empty SpreadsheetID
// runs everything against in-memory stores (local mode).
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	TransactionsTab string `yaml:"transactions_tab"`
	IncomeTab       string `yaml:"income_tab"`
	ExpenseTab      string `yaml:"expense_tab"`
	RulesTab        string `yaml:"rules_tab"`
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

// MatchingConfig controls the matching engine.
type MatchingConfig struct {
	// FallbackIncomeCode classifies deposits no rule matched. Unmatched
	// income never enters review; it lands here instead.
	FallbackIncomeCode string `yaml:"fallback_income_code"`
	SuggestionLimit    int    `yaml:"suggestion_limit"`
}

// SuppressionConfig lists memo/description markers that suppress a
// transaction before rule matching runs.
type SuppressionConfig struct {
	TransferPatterns []string `yaml:"transfer_patterns"`
	Patterns         []string `yaml:"patterns,omitempty"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads a chaegbu.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(churchName string) *Config {
	return &Config{
		Church: ChurchConfig{
			Name: churchName,
		},
		Sheets: SheetsConfig{
			TransactionsTab: "거래내역",
			IncomeTab:       "수입부",
			ExpenseTab:      "지출부",
			RulesTab:        "분류규칙",
		},
		Matching: MatchingConfig{
			FallbackIncomeCode: "10",
			SuggestionLimit:    5,
		},
		Suppression: SuppressionConfig{
			TransferPatterns: []string{"대체", "내부이체", "자체이체"},
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}
