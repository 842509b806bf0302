package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/accounts"
	"github.com/cleared-dev/ledgerview/internal/export"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/teller"
)

type statementFlags struct {
	account  string
	search   string
	category string
	from     string
	to       string
	sortKey  string
	desc     bool
	group    bool
	payments bool
	seed     string
	csvPath  string
	pdfPath  string
}

func newStatementCommand(a *app) *cobra.Command {
	var f statementFlags

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Show a statement with running balances, optionally exporting CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			e, err := a.env(cmd)
			if err != nil {
				return err
			}
			return runStatement(cmd, e, req, f.csvPath, f.pdfPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.account, "account", "", "current or savings (default all)")
	flags.StringVar(&f.search, "search", "", "case-insensitive text in description or category")
	flags.StringVar(&f.category, "category", "", "exact category, e.g. \"Food & Dining\"")
	flags.StringVar(&f.from, "from", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&f.to, "to", "", "last day to include (YYYY-MM-DD)")
	flags.StringVar(&f.sortKey, "sort", string(ledger.SortDate), "sort key: date, amount, balance, description, category, type, accountType, id, reference, recipientName")
	flags.BoolVar(&f.desc, "desc", false, "newest or largest first")
	flags.BoolVar(&f.group, "group", false, "group rows by day")
	flags.BoolVar(&f.payments, "payments", true, "merge the payment history into the statement")
	flags.StringVar(&f.seed, "seed", "0", "balance before the first transaction")
	flags.StringVar(&f.csvPath, "csv", "", "write the statement as CSV to this file (- for stdout)")
	flags.StringVar(&f.pdfPath, "pdf", "", "write the statement as PDF to this file")

	return cmd
}

func (f statementFlags) request() (teller.StatementRequest, error) {
	account, err := parseAccount(f.account, true)
	if err != nil {
		return teller.StatementRequest{}, err
	}
	seed, err := decimal.NewFromString(f.seed)
	if err != nil {
		return teller.StatementRequest{}, fmt.Errorf("parsing --seed: %w", err)
	}

	spec := ledger.FilterSpec{
		SearchTerm:  f.search,
		Category:    model.Category(f.category),
		AccountType: account,
	}
	if f.from != "" {
		if spec.StartDate, err = model.ParseDate(f.from); err != nil {
			return teller.StatementRequest{}, fmt.Errorf("parsing --from: %w", err)
		}
	}
	if f.to != "" {
		if spec.EndDate, err = model.ParseDate(f.to); err != nil {
			return teller.StatementRequest{}, fmt.Errorf("parsing --to: %w", err)
		}
	}

	dir := ledger.Ascending
	if f.desc {
		dir = ledger.Descending
	}

	return teller.StatementRequest{
		Account:         account,
		IncludePayments: f.payments,
		View: ledger.ViewOptions{
			Seed:      seed,
			Filter:    spec,
			SortKey:   ledger.SortKey(f.sortKey),
			Direction: dir,
			Group:     f.group,
		},
	}, nil
}

func runStatement(cmd *cobra.Command, e *env, req teller.StatementRequest, csvPath, pdfPath string) error {
	out := cmd.OutOrStdout()

	st, err := e.teller.Statement(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("loading statement: %w", err)
	}

	if csvPath != "" {
		if err := writeCSV(out, csvPath, st.Rows); err != nil {
			return err
		}
		if csvPath == "-" {
			return nil
		}
	}
	if pdfPath != "" {
		if err := writePDF(pdfPath, statementDocument(e.accounts, req, st)); err != nil {
			return err
		}
	}

	label := "All accounts"
	if acct, ok := e.accounts.Get(req.Account); ok {
		label = acct.Name
	}
	fmt.Fprintf(out, "%s statement%s\n\n", label, sourceNote(st.Source))

	if len(st.Rows) == 0 {
		fmt.Fprintln(out, "No transactions found")
	} else if st.Groups != nil {
		if err := printGroups(out, st.Groups); err != nil {
			return err
		}
	} else if err := printRows(out, st.Rows); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := printSummary(out, st.Summary); err != nil {
		return err
	}
	if csvPath != "" {
		fmt.Fprintf(out, "\nCSV written to %s\n", csvPath)
	}
	if pdfPath != "" {
		fmt.Fprintf(out, "PDF written to %s\n", pdfPath)
	}
	return nil
}

func writeCSV(stdout io.Writer, path string, rows []model.Transaction) error {
	if path == "-" {
		if err := export.WriteCSV(stdout, rows, nil); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		_, err := fmt.Fprintln(stdout)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteCSV(f, rows, nil); err != nil {
		f.Close()
		return fmt.Errorf("writing CSV: %w", err)
	}
	return f.Close()
}

func writePDF(path string, doc export.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WritePDF(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("writing PDF: %w", err)
	}
	return f.Close()
}

// statementDocument fills the PDF header from the request, taking the
// period from the date filter or, when unset, from the rows themselves.
func statementDocument(accts *accounts.Service, req teller.StatementRequest, st teller.Statement) export.Statement {
	start, end := req.View.Filter.StartDate, req.View.Filter.EndDate
	for _, t := range st.Rows {
		if req.View.Filter.StartDate.IsZero() && (start.IsZero() || t.Date.Before(start)) {
			start = t.Date
		}
		if req.View.Filter.EndDate.IsZero() && (end.IsZero() || t.Date.After(end)) {
			end = t.Date
		}
	}
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end
	}

	account := "all accounts"
	if req.Account != "" {
		account = string(req.Account)
	}
	return export.Statement{
		Account:       account,
		AccountNumber: accts.MaskedNumber(req.Account),
		PeriodStart:   start,
		PeriodEnd:     end,
		Summary:       st.Summary,
		Transactions:  st.Rows,
	}
}
