package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/export"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/teller"
)

func newWatchCommand(a *app) *cobra.Command {
	var account string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-fetch an account on an interval and print the net movement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := parseAccount(account, false)
			if err != nil {
				return err
			}
			e, err := a.env(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := &teller.Poller{
				Service:  e.teller,
				Account:  acct,
				Interval: interval,
				OnUpdate: func(s teller.Snapshot) {
					closing := ledger.FinalBalance(s.Transactions, decimal.Zero)
					fmt.Fprintf(out, "%s  %d transactions  net %s%s\n",
						s.FetchedAt.Format(time.TimeOnly), len(s.Transactions), export.FormatAmount(closing), sourceNote(s.Source))
				},
				OnError: func(err error) {
					e.log.WithError(err).Error("watch.RefreshFailed")
				},
			}
			return p.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&account, "account", "current", "current or savings")
	cmd.Flags().DurationVar(&interval, "interval", teller.DefaultPollInterval, "time between refreshes")

	return cmd
}
