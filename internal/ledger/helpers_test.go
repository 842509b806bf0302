package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(id string, when time.Time, typ model.TransactionType, amount string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Date:        when,
		Description: id,
		Amount:      dec(amount),
		Type:        typ,
		AccountType: model.AccountCurrent,
	}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func balances(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.Balance.Decimal.StringFixed(2)
	}
	return out
}
