package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// DefaultAccounts returns the two accounts every customer holds.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{Type: model.AccountCurrent, Name: "Current Account", Number: "1234567890", Description: "Your everyday spending account"},
		{Type: model.AccountSavings, Name: "Savings Account", Number: "0987654321", Description: "Your long-term savings account"},
	}
}

// DefaultSeedBalances returns the opening balances used when neither the
// backend nor the local cache can supply any.
func DefaultSeedBalances() model.Balances {
	return model.Balances{
		model.AccountCurrent: decimal.NewFromInt(25000),
		model.AccountSavings: decimal.NewFromInt(50000),
	}
}
