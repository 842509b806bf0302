package ledger

import (
	"strings"
	"time"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// FilterSpec selects rows for display. Zero-valued fields match everything.
type FilterSpec struct {
	SearchTerm  string            // case-insensitive substring of description or category
	Category    model.Category    // exact match
	AccountType model.AccountType // exact match
	StartDate   time.Time         // inclusive, compared by calendar day
	EndDate     time.Time         // inclusive, compared by calendar day
}

// IsZero reports whether the spec matches every row.
func (s FilterSpec) IsZero() bool {
	return s == FilterSpec{}
}

// Matches reports whether t satisfies every set field of the spec.
func (s FilterSpec) Matches(t model.Transaction) bool {
	if s.SearchTerm != "" {
		term := strings.ToLower(s.SearchTerm)
		if !strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(string(t.Category)), term) {
			return false
		}
	}
	if s.Category != "" && t.Category != s.Category {
		return false
	}
	if s.AccountType != "" && t.AccountType != s.AccountType {
		return false
	}
	day := dateOnly(t.Date)
	if !s.StartDate.IsZero() && day.Before(dateOnly(s.StartDate)) {
		return false
	}
	if !s.EndDate.IsZero() && day.After(dateOnly(s.EndDate)) {
		return false
	}
	return true
}

// Filter returns the rows matching spec in their incoming order.
func Filter(txns []model.Transaction, spec FilterSpec) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if spec.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
