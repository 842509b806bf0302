// Package export renders ledger rows the way the statement screen shows
// them: CSV snapshots and a fixed-layout PDF statement.
package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/model"
)

const (
	currencySymbol = "R"
	dateFormat     = "2 January 2006"
)

// FormatAmount renders d as a rand amount with digit grouping, e.g.
// "R25,000.00" or "-R60.00". Digits are taken from the decimal itself, so
// amounts of any size print exactly.
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + currencySymbol + group(whole) + "." + frac
}

// group inserts a comma between every three digits of an unsigned integer.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatSignedAmount renders the row amount with a leading + for
// balance-increasing rows and - otherwise.
func FormatSignedAmount(t model.Transaction) string {
	if t.Type.Increases() {
		return "+" + FormatAmount(t.Amount)
	}
	return "-" + FormatAmount(t.Amount)
}

// FormatBalance renders the running balance, or "" when it is unknown.
func FormatBalance(t model.Transaction) string {
	if !t.Balance.Valid {
		return ""
	}
	return FormatAmount(t.Balance.Decimal)
}

// FormatDate renders the long-form date used on screen, e.g. "5 March 2024".
func FormatDate(t time.Time) string {
	return t.Format(dateFormat)
}
