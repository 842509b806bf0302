package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/export"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/teller"
)

type payloadFlags struct {
	account          string
	amount           string
	description      string
	recipient        string
	recipientAccount string
	to               string
}

func (f payloadFlags) payload() (ledger.Payload, error) {
	account, err := parseAccount(f.account, false)
	if err != nil {
		return ledger.Payload{}, err
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return ledger.Payload{}, fmt.Errorf("parsing --amount %q: %w", f.amount, err)
	}
	return ledger.Payload{
		AccountType:            account,
		Amount:                 amount,
		Description:            f.description,
		RecipientName:          f.recipient,
		RecipientAccountNumber: f.recipientAccount,
		ToAccount:              model.AccountType(f.to),
	}, nil
}

func newPayCommand(a *app) *cobra.Command {
	var f payloadFlags
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay a recipient from an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, a, ledger.OpPay, f)
		},
	}
	addPayloadFlags(cmd, &f)
	cmd.Flags().StringVar(&f.recipient, "recipient", "", "recipient name")
	cmd.Flags().StringVar(&f.recipientAccount, "recipient-account", "", "recipient account number")
	return cmd
}

func newTransferCommand(a *app) *cobra.Command {
	var f payloadFlags
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between your accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, a, ledger.OpTransfer, f)
		},
	}
	addPayloadFlags(cmd, &f)
	cmd.Flags().StringVar(&f.to, "to", "", "destination account")
	return cmd
}

func newDepositCommand(a *app) *cobra.Command {
	var f payloadFlags
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit money into an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, a, ledger.OpDeposit, f)
		},
	}
	addPayloadFlags(cmd, &f)
	return cmd
}

func addPayloadFlags(cmd *cobra.Command, f *payloadFlags) {
	cmd.Flags().StringVar(&f.account, "account", string(model.AccountCurrent), "source account: current or savings")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, e.g. 150.00 (required)")
	cmd.Flags().StringVar(&f.description, "description", "", "description shown on the statement")
	_ = cmd.MarkFlagRequired("amount")
}

var successMessages = map[ledger.Operation]string{
	ledger.OpPay:      "Payment successful!",
	ledger.OpTransfer: "Transfer successful!",
	ledger.OpDeposit:  "Deposit successful!",
}

func runSubmit(cmd *cobra.Command, a *app, op ledger.Operation, f payloadFlags) error {
	p, err := f.payload()
	if err != nil {
		return err
	}
	e, err := a.env(cmd)
	if err != nil {
		return err
	}

	res, err := e.teller.Submit(cmd.Context(), op, p)
	if err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successMessages[op])
	if res.Offline {
		fmt.Fprintln(out, "The bank could not be reached; the change was recorded locally.")
	}
	if err := printRows(out, res.Transactions); err != nil {
		return err
	}
	return printBalances(out, e, res)
}

func printBalances(out io.Writer, e *env, res teller.Result) error {
	if res.Balances == nil {
		return nil
	}
	fmt.Fprintln(out)
	tw := newTable(out)
	for _, acct := range e.accounts.All() {
		fmt.Fprintf(tw, "%s\t%s\n", acct.Name, export.FormatAmount(res.Balances.Get(acct.Type)))
	}
	return tw.Flush()
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.env(cmd)
			if err != nil {
				return err
			}
			removed, err := e.teller.Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", removed.ID, removed.Description)
			return nil
		},
	}
}
