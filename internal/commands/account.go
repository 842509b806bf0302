package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/export"
)

func newBalancesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show the balance of each account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.env(cmd)
			if err != nil {
				return err
			}
			balances, src, err := e.teller.Balances(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading balances: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balances%s\n\n", sourceNote(src))
			tw := newTable(out)
			for _, acct := range e.accounts.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", acct.Name, e.accounts.MaskedNumber(acct.Type), export.FormatAmount(balances.Get(acct.Type)))
			}
			return tw.Flush()
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.env(cmd)
			if err != nil {
				return err
			}
			p, src, err := e.teller.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:  %s\nEmail: %s\n", p.Name, p.Email)
			if note := sourceNote(src); note != "" {
				fmt.Fprintln(out, note[1:])
			}
			return nil
		},
	}
}

func newCardsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List payment cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.env(cmd)
			if err != nil {
				return err
			}
			cards, err := e.teller.Cards(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading cards: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintln(out, "No cards found")
				return nil
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "TYPE\tNUMBER\tEXPIRY")
			for _, c := range cards {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Type, c.Number, c.Expiry)
			}
			return tw.Flush()
		},
	}
}

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show credit limit, spend and revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.env(cmd)
			if err != nil {
				return err
			}
			d, err := e.teller.Dashboard(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading dashboard: %w", err)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Credit limit\t%s\n", export.FormatAmount(d.CreditLimit))
			fmt.Fprintf(tw, "Spend\t%s\n", export.FormatAmount(d.Spend))
			fmt.Fprintf(tw, "Total revenue\t%s\n", export.FormatAmount(d.TotalRevenue))
			fmt.Fprintf(tw, "Payments\t%d\n", len(d.Payments))
			return tw.Flush()
		},
	}
}
