package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// Column names a CSV column; the name is also its header text.
type Column string

const (
	ColDate        Column = "Date"
	ColDescription Column = "Description"
	ColAmount      Column = "Amount"
	ColType        Column = "Type"
	ColCategory    Column = "Category"
	ColAccountType Column = "Account Type"
	ColBalance     Column = "Balance"
	ColReference   Column = "Reference"
	ColID          Column = "ID"
	ColRecipient   Column = "Recipient"
)

// DefaultColumns is the column set of the downloadable statement.
var DefaultColumns = []Column{
	ColDate, ColDescription, ColAmount, ColType, ColCategory, ColAccountType, ColBalance,
}

// MediaType is the content type of ExportCSV output.
const MediaType = "text/csv"

// ExportCSV renders the rows as CSV text: a header line followed by one line
// per row, with no trailing newline. Nil columns selects DefaultColumns.
func ExportCSV(txns []model.Transaction, columns []Column) string {
	var sb strings.Builder
	// strings.Builder writes never fail.
	_ = WriteCSV(&sb, txns, columns)
	return sb.String()
}

// WriteCSV streams the CSV form of the rows to w. Every value is
// double-quoted with internal quotes doubled, and line breaks inside values
// are folded to spaces so each row occupies exactly one line.
func WriteCSV(w io.Writer, txns []model.Transaction, columns []Column) error {
	if len(columns) == 0 {
		columns = DefaultColumns
	}

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = string(c)
	}
	if _, err := io.WriteString(w, strings.Join(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(columns))
	for i, t := range txns {
		for j, c := range columns {
			row[j] = quote(Cell(t, c))
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(row, ",")); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return nil
}

// Cell returns the display text of one column for a row.
func Cell(t model.Transaction, c Column) string {
	switch c {
	case ColDate:
		return FormatDate(t.Date)
	case ColDescription:
		return t.Description
	case ColAmount:
		return FormatSignedAmount(t)
	case ColType:
		return string(t.Type)
	case ColCategory:
		if t.Category == "" {
			return string(model.CategoryOther)
		}
		return string(t.Category)
	case ColAccountType:
		return string(t.AccountType)
	case ColBalance:
		return FormatBalance(t)
	case ColReference:
		if t.Reference == "" {
			return "-"
		}
		return t.Reference
	case ColID:
		return t.ID
	case ColRecipient:
		return t.RecipientName
	default:
		return ""
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func quote(s string) string {
	s = lineBreaks.Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
