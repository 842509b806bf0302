// Package ledger turns raw transaction rows into display-ready ledger views:
// running balances, statement summaries, filtered, sorted and grouped lists,
// and validated offline transactions. Every function is pure; inputs are
// never modified.
package ledger

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// Direction orders a result ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Summary holds the aggregate figures of a statement window.
type Summary struct {
	OpeningBalance decimal.Decimal // balance after the earliest row
	ClosingBalance decimal.Decimal // balance after the latest row
	BroughtForward decimal.Decimal // balance before the earliest row
	TotalCredits   decimal.Decimal
	TotalDebits    decimal.Decimal
	Count          int
}

// ComputeRunningBalances folds signed amounts over the rows in chronological
// order starting from seed and records the post-transaction balance on each
// row. Rows sharing a timestamp are applied in their incoming order.
//
// With Descending the result is the exact reverse of the chronological
// order, so the most recently applied row comes first.
func ComputeRunningBalances(txns []model.Transaction, seed decimal.Decimal, order Direction) []model.Transaction {
	out := chronological(txns)
	acc := seed
	for i := range out {
		acc = acc.Add(out[i].SignedAmount())
		out[i].Balance = decimal.NewNullDecimal(acc)
	}
	if order == Descending {
		slices.Reverse(out)
	}
	return out
}

// Summarize computes statement totals. Credits sum the balance-increasing
// rows; every other row counts as a debit. Opening and closing balances are
// read from the Balance field of the first and last applied rows, so
// callers normally run ComputeRunningBalances first. Either output order of
// ComputeRunningBalances is accepted, including rows that share a
// timestamp. Rows without a balance contribute zero.
func Summarize(txns []model.Transaction) Summary {
	s := Summary{
		OpeningBalance: decimal.Zero,
		ClosingBalance: decimal.Zero,
		BroughtForward: decimal.Zero,
		TotalCredits:   decimal.Zero,
		TotalDebits:    decimal.Zero,
		Count:          len(txns),
	}
	if len(txns) == 0 {
		return s
	}

	for _, t := range txns {
		if t.Type.Increases() {
			s.TotalCredits = s.TotalCredits.Add(t.Amount)
		} else {
			s.TotalDebits = s.TotalDebits.Add(t.Amount)
		}
	}

	ordered := appliedOrder(txns)
	first, last := ordered[0], ordered[len(ordered)-1]
	s.OpeningBalance = balanceOf(first)
	s.ClosingBalance = balanceOf(last)
	s.BroughtForward = s.OpeningBalance.Sub(first.SignedAmount())
	return s
}

// FinalBalance returns seed plus the signed sum of all rows.
func FinalBalance(txns []model.Transaction, seed decimal.Decimal) decimal.Decimal {
	acc := seed
	for _, t := range txns {
		acc = acc.Add(t.SignedAmount())
	}
	return acc
}

func balanceOf(t model.Transaction) decimal.Decimal {
	if t.Balance.Valid {
		return t.Balance.Decimal
	}
	return decimal.Zero
}

// appliedOrder returns the rows in the order their balances were folded.
// Input already sorted either way by date keeps its tie order, reversed
// when newest-first. When every row shares one timestamp the balance chain
// decides. Anything else is sorted chronologically.
func appliedOrder(txns []model.Transaction) []model.Transaction {
	byDate := func(a, b model.Transaction) int { return a.Date.Compare(b.Date) }
	asc := slices.IsSortedFunc(txns, byDate)
	desc := slices.IsSortedFunc(txns, func(a, b model.Transaction) int { return byDate(b, a) })

	reversed := func() []model.Transaction {
		out := slices.Clone(txns)
		slices.Reverse(out)
		return out
	}
	switch {
	case asc && desc:
		if !chained(txns) {
			if r := reversed(); chained(r) {
				return r
			}
		}
		return txns
	case asc:
		return txns
	case desc:
		return reversed()
	default:
		return chronological(txns)
	}
}

// chained reports whether each row's balance is the previous row's balance
// plus its own signed amount.
func chained(txns []model.Transaction) bool {
	for i, t := range txns {
		if !t.Balance.Valid {
			return false
		}
		if i > 0 && !t.Balance.Decimal.Equal(txns[i-1].Balance.Decimal.Add(t.SignedAmount())) {
			return false
		}
	}
	return true
}

// chronological returns a copy sorted by date, keeping the incoming order
// of rows with equal timestamps.
func chronological(txns []model.Transaction) []model.Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
