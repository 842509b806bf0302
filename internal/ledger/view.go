package ledger

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/id"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// MergePayments appends payment records to the rows as debits, the way the
// statement screen shows them. account labels the converted rows; it may be
// empty when the statement spans all accounts.
func MergePayments(txns []model.Transaction, payments []model.Payment, account model.AccountType) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns)+len(payments))
	out = append(out, txns...)
	for _, p := range payments {
		label := p.Description
		if label == "" {
			label = p.RecipientName
		}
		out = append(out, model.Transaction{
			ID:                     id.Payment(p.ID),
			Date:                   p.Date,
			Description:            "Payment: " + label,
			Amount:                 p.Amount,
			Type:                   model.TypeDebit,
			AccountType:            account,
			Category:               model.CategoryPayment,
			Reference:              p.Reference,
			RecipientName:          p.RecipientName,
			RecipientAccountNumber: p.RecipientAccountNumber,
			Balance:                p.Balance,
		})
	}
	return out
}

// ViewOptions controls BuildView.
type ViewOptions struct {
	Seed      decimal.Decimal
	Filter    FilterSpec
	SortKey   SortKey // defaults to SortDate
	Direction Direction
	Group     bool
}

// View is a display-ready ledger.
type View struct {
	Rows    []model.Transaction
	Groups  []DateGroup // set only when grouping was requested
	Summary Summary     // computed over Rows
}

// BuildView computes running balances over the full list, then filters,
// summarizes the filtered window, and orders it for display.
func BuildView(txns []model.Transaction, opts ViewOptions) View {
	rows := ComputeRunningBalances(txns, opts.Seed, Ascending)
	rows = Filter(rows, opts.Filter)
	summary := Summarize(rows)

	// Filter keeps the chronological order of the balance pass.
	switch key := opts.SortKey; {
	case key == "" || key == SortDate:
		if opts.Direction == Descending {
			slices.Reverse(rows)
		}
	default:
		rows = SortBy(rows, key, opts.Direction)
	}

	v := View{Rows: rows, Summary: summary}
	if opts.Group {
		v.Groups = GroupByDate(rows)
	}
	return v
}
