package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/id"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// Operation is a mutating request the customer can make.
type Operation string

const (
	OpPay      Operation = "pay"
	OpTransfer Operation = "transfer"
	OpDeposit  Operation = "deposit"
)

// Payload carries the form fields of a pay, transfer or deposit request.
type Payload struct {
	AccountType            model.AccountType
	Amount                 decimal.Decimal
	Description            string
	RecipientName          string
	RecipientAccountNumber string
	ToAccount              model.AccountType
}

// Outcome is the result of a successful offline synthesis.
type Outcome struct {
	Transactions []model.Transaction
	Balances     model.Balances
}

// AccountChecker tests whether an account type is held by the customer.
type AccountChecker interface {
	Exists(t model.AccountType) bool
}

// Synthesizer builds transactions locally when the backend cannot be reached.
type Synthesizer struct {
	Accounts AccountChecker   // nil accepts the two known account types
	Now      func() time.Time // timestamp source
	NewID    func() string    // identifier source
}

// NewSynthesizer returns a Synthesizer using the wall clock and mock ids.
func NewSynthesizer(accounts AccountChecker) *Synthesizer {
	return &Synthesizer{Accounts: accounts, Now: time.Now, NewID: id.NewMock}
}

// Validate checks p against the current balances without building anything.
func (s *Synthesizer) Validate(op Operation, p Payload, balances model.Balances) error {
	reject := func(reason error, detail string) error {
		return ValidationError{Op: op, Reason: reason, Detail: detail}
	}

	switch op {
	case OpPay, OpTransfer, OpDeposit:
	default:
		return reject(ErrUnknownOperation, string(op))
	}

	if !p.Amount.IsPositive() {
		return reject(ErrInvalidAmount, p.Amount.String())
	}
	if !s.exists(p.AccountType) {
		return reject(ErrUnknownAccount, string(p.AccountType))
	}

	switch op {
	case OpPay:
		if strings.TrimSpace(p.RecipientName) == "" || strings.TrimSpace(p.RecipientAccountNumber) == "" {
			return reject(ErrMissingRecipient, "")
		}
	case OpTransfer:
		if !s.exists(p.ToAccount) || p.ToAccount == p.AccountType {
			return reject(ErrInvalidDestination, fmt.Sprintf("%q from %q", p.ToAccount, p.AccountType))
		}
	}

	if op == OpPay || op == OpTransfer {
		available := balances.Get(p.AccountType)
		if available.LessThan(p.Amount) {
			return reject(ErrInsufficientFunds, fmt.Sprintf("%s available, %s requested", available.StringFixed(2), p.Amount.StringFixed(2)))
		}
	}
	return nil
}

// Apply validates p and, on success, returns the synthesized rows and the
// updated balances. The balances argument is never modified; on error the
// caller's balances stay as they were.
func (s *Synthesizer) Apply(op Operation, p Payload, balances model.Balances) (Outcome, error) {
	if err := s.Validate(op, p, balances); err != nil {
		return Outcome{}, err
	}

	now := s.Now()
	next := balances.Clone()
	var rows []model.Transaction

	switch op {
	case OpPay:
		next[p.AccountType] = next.Get(p.AccountType).Sub(p.Amount)
		rows = append(rows, model.Transaction{
			ID:                     s.NewID(),
			Date:                   now,
			Description:            orDefault(p.Description, "Payment to "+p.RecipientName),
			Amount:                 p.Amount,
			Type:                   model.TypeDebit,
			AccountType:            p.AccountType,
			Category:               model.CategoryPayment,
			RecipientName:          p.RecipientName,
			RecipientAccountNumber: p.RecipientAccountNumber,
			Balance:                decimal.NewNullDecimal(next.Get(p.AccountType)),
		})

	case OpTransfer:
		next[p.AccountType] = next.Get(p.AccountType).Sub(p.Amount)
		next[p.ToAccount] = next.Get(p.ToAccount).Add(p.Amount)
		rows = append(rows,
			model.Transaction{
				ID:          s.NewID(),
				Date:        now,
				Description: orDefault(p.Description, fmt.Sprintf("Transfer to %s", p.ToAccount)),
				Amount:      p.Amount,
				Type:        model.TypeTransfer,
				AccountType: p.AccountType,
				Category:    model.CategoryTransfer,
				ToAccount:   p.ToAccount,
				Balance:     decimal.NewNullDecimal(next.Get(p.AccountType)),
			},
			model.Transaction{
				ID:          s.NewID(),
				Date:        now,
				Description: orDefault(p.Description, fmt.Sprintf("Transfer from %s", p.AccountType)),
				Amount:      p.Amount,
				Type:        model.TypeCredit,
				AccountType: p.ToAccount,
				Category:    model.CategoryTransfer,
				Balance:     decimal.NewNullDecimal(next.Get(p.ToAccount)),
			},
		)

	case OpDeposit:
		next[p.AccountType] = next.Get(p.AccountType).Add(p.Amount)
		rows = append(rows, model.Transaction{
			ID:          s.NewID(),
			Date:        now,
			Description: orDefault(p.Description, "Deposit"),
			Amount:      p.Amount,
			Type:        model.TypeDeposit,
			AccountType: p.AccountType,
			Category:    model.CategoryIncome,
			Balance:     decimal.NewNullDecimal(next.Get(p.AccountType)),
		})
	}

	return Outcome{Transactions: rows, Balances: next}, nil
}

func (s *Synthesizer) exists(t model.AccountType) bool {
	if s.Accounts == nil {
		return t.Valid()
	}
	return s.Accounts.Exists(t)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Reverse backs a row's effect out of the balances, as when the row is
// deleted. Rows without an account leave the balances unchanged.
func Reverse(t model.Transaction, balances model.Balances) model.Balances {
	next := balances.Clone()
	if t.AccountType == "" {
		return next
	}
	next[t.AccountType] = next.Get(t.AccountType).Sub(t.SignedAmount())
	return next
}

// Remove returns the rows without the one whose ID is txnID, plus the
// removed row. ok is false when no row matched.
func Remove(txns []model.Transaction, txnID string) (rest []model.Transaction, removed model.Transaction, ok bool) {
	rest = make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !ok && t.ID == txnID {
			removed, ok = t, true
			continue
		}
		rest = append(rest, t)
	}
	return rest, removed, ok
}
