package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cleared-dev/ledgerview/internal/export"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/teller"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printRows(out io.Writer, rows []model.Transaction) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tACCOUNT\tAMOUNT\tBALANCE\tID")
	for _, t := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			export.FormatDate(t.Date),
			t.Description,
			export.Cell(t, export.ColCategory),
			t.AccountType,
			export.FormatSignedAmount(t),
			export.FormatBalance(t),
			t.ID,
		)
	}
	return tw.Flush()
}

func printGroups(out io.Writer, groups []ledger.DateGroup) error {
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n", export.FormatDate(g.Date))
		if err := printRows(out, g.Transactions); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(out io.Writer, s ledger.Summary) error {
	tw := newTable(out)
	fmt.Fprintf(tw, "Transactions\t%d\n", s.Count)
	fmt.Fprintf(tw, "Brought forward\t%s\n", export.FormatAmount(s.BroughtForward))
	fmt.Fprintf(tw, "Opening balance\t%s\n", export.FormatAmount(s.OpeningBalance))
	fmt.Fprintf(tw, "Total credits\t%s\n", export.FormatAmount(s.TotalCredits))
	fmt.Fprintf(tw, "Total debits\t%s\n", export.FormatAmount(s.TotalDebits))
	fmt.Fprintf(tw, "Closing balance\t%s\n", export.FormatAmount(s.ClosingBalance))
	return tw.Flush()
}

func sourceNote(src teller.Source) string {
	switch src {
	case teller.SourceCache:
		return " (offline: showing cached data)"
	case teller.SourceSeed:
		return " (offline: showing opening balances)"
	default:
		return ""
	}
}
