package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// SortKey names the field a list is ordered by.
type SortKey string

const (
	SortDate          SortKey = "date"
	SortAmount        SortKey = "amount"
	SortBalance       SortKey = "balance"
	SortDescription   SortKey = "description"
	SortCategory      SortKey = "category"
	SortType          SortKey = "type"
	SortAccountType   SortKey = "accountType"
	SortID            SortKey = "id"
	SortReference     SortKey = "reference"
	SortRecipientName SortKey = "recipientName"
)

// SortBy returns a copy ordered by key. Dates and amounts compare
// numerically, other keys lexicographically; unknown keys leave the order
// unchanged. The sort is stable in both directions: ties keep their
// incoming relative order.
func SortBy(txns []model.Transaction, key SortKey, dir Direction) []model.Transaction {
	out := slices.Clone(txns)
	cmp := comparator(key)
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		if dir == Descending {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func comparator(key SortKey) func(a, b model.Transaction) int {
	switch key {
	case SortDate:
		return func(a, b model.Transaction) int { return a.Date.Compare(b.Date) }
	case SortAmount:
		return func(a, b model.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case SortBalance:
		return func(a, b model.Transaction) int { return balanceOf(a).Cmp(balanceOf(b)) }
	default:
		return func(a, b model.Transaction) int {
			return strings.Compare(FieldValue(a, key), FieldValue(b, key))
		}
	}
}

// FieldValue returns the string form of a row field used for lexicographic
// sorting. Unknown keys yield "".
func FieldValue(t model.Transaction, key SortKey) string {
	switch key {
	case SortDescription:
		return t.Description
	case SortCategory:
		return string(t.Category)
	case SortType:
		return string(t.Type)
	case SortAccountType:
		return string(t.AccountType)
	case SortID:
		return t.ID
	case SortReference:
		return t.Reference
	case SortRecipientName:
		return t.RecipientName
	default:
		return ""
	}
}

// DateGroup is the set of rows that fall on one calendar day.
type DateGroup struct {
	Date         time.Time
	Transactions []model.Transaction
}

// GroupByDate buckets rows by calendar day, newest day first. Rows keep
// their incoming relative order inside each group.
func GroupByDate(txns []model.Transaction) []DateGroup {
	index := make(map[time.Time]int)
	var groups []DateGroup
	for _, t := range txns {
		day := dateOnly(t.Date)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DateGroup{Date: day})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	slices.SortStableFunc(groups, func(a, b DateGroup) int {
		return b.Date.Compare(a.Date)
	})
	return groups
}
