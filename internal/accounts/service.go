package accounts

import (
	"strings"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// Service provides in-memory lookup over the customer's accounts.
type Service struct {
	accounts []model.Account
	byType   map[model.AccountType]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byType := make(map[model.AccountType]model.Account, len(accounts))
	for _, a := range accounts {
		byType[a.Type] = a
	}
	return &Service{accounts: accounts, byType: byType}
}

// Default returns a Service over DefaultAccounts.
func Default() *Service {
	return NewService(DefaultAccounts())
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by type.
func (s *Service) Get(t model.AccountType) (model.Account, bool) {
	a, ok := s.byType[t]
	return a, ok
}

// Exists reports whether an account type is held.
func (s *Service) Exists(t model.AccountType) bool {
	_, ok := s.byType[t]
	return ok
}

// MaskedNumber returns the account number with all but the last four
// digits hidden, e.g. "XXXXXX7890". Unknown accounts mask entirely.
func (s *Service) MaskedNumber(t model.AccountType) string {
	a, ok := s.byType[t]
	if !ok || len(a.Number) <= 4 {
		return "XXXX-XXXX-XXXX"
	}
	return strings.Repeat("X", len(a.Number)-4) + a.Number[len(a.Number)-4:]
}
