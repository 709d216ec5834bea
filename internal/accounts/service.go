package accounts

import (
	"fmt"
	"os"
	"path/filepath"
)

// Service provides in-memory lookup over the classification chart.
type Service struct {
	accounts []Account
	byCode   map[string]Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []Account) *Service {
	byCode := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return &Service{accounts: accounts, byCode: byCode}
}

// Load reads chart.csv from a project root and returns a Service.
func Load(root string) (*Service, error) {
	path := filepath.Join(root, "accounts", "chart.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []Account {
	return s.accounts
}

// Get returns an account by code.
func (s *Service) Get(code string) (Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether a code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// ByKind returns all accounts of the given kind.
func (s *Service) ByKind(kind Kind) []Account {
	var result []Account
	for _, a := range s.accounts {
		if a.Kind == kind {
			result = append(result, a)
		}
	}
	return result
}

// Label returns the display name for a code, or the code itself when the
// chart has no entry for it.
func (s *Service) Label(code string) string {
	if a, ok := s.byCode[code]; ok {
		return a.Name
	}
	return code
}

// Save writes the chart to accounts/chart.csv under the project root.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	return WriteAccounts(f, s.accounts)
}
