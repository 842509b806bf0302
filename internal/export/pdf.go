package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// Statement is everything printed on a PDF statement.
type Statement struct {
	Account       string // account label, e.g. "current" or "all"
	AccountNumber string // already masked
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Summary       ledger.Summary
	Transactions  []model.Transaction
}

var (
	tableHeader = []string{"Date", "Description", "Reference", "Amount", "Balance"}
	tableWidths = []float64{32, 68, 30, 30, 30}
)

// WritePDF lays out an A4 statement: title, period, account information,
// summary and the transaction table.
func WritePDF(w io.Writer, st Statement) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bank Statement", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Bank Statement", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	line := func(text string) {
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
	}

	line(fmt.Sprintf("Statement Period: %s - %s", FormatDate(st.PeriodStart), FormatDate(st.PeriodEnd)))
	pdf.Ln(3)
	line("Account Information:")
	line("Account Type: " + cases.Upper(language.English).String(st.Account))
	line("Account Number: " + st.AccountNumber)
	pdf.Ln(3)
	line("Statement Summary:")
	line("Opening Balance: " + FormatAmount(st.Summary.OpeningBalance))
	line("Closing Balance: " + FormatAmount(st.Summary.ClosingBalance))
	line("Total Credits: " + FormatAmount(st.Summary.TotalCredits))
	line("Total Debits: " + FormatAmount(st.Summary.TotalDebits))
	pdf.Ln(4)

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(50, 93, 176)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range tableHeader {
			pdf.CellFormat(tableWidths[i], 8, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, t := range st.Transactions {
		if pdf.GetY()+7 > pageHeight-bottom-15 {
			pdf.AddPage()
			drawHeader()
		}
		cells := []string{
			FormatDate(t.Date),
			t.Description,
			Cell(t, ColReference),
			FormatSignedAmount(t),
			FormatBalance(t),
		}
		for i, c := range cells {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(tableWidths[i], 7, fit(pdf, tr(c), tableWidths[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("laying out statement: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing statement: %w", err)
	}
	return nil
}

// fit truncates s with an ellipsis until it fits in width millimetres.
// s is already in the single-byte font encoding, so byte slicing is safe.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
