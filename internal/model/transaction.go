package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger row as reported by the backend.
type TransactionType string

const (
	TypeCredit     TransactionType = "credit"
	TypeDebit      TransactionType = "debit"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

// Increases reports whether a row of this type adds to the account balance.
// Only credit and deposit do; every other type, including unknown ones, subtracts.
func (t TransactionType) Increases() bool {
	return t == TypeCredit || t == TypeDeposit
}

// Category is a display label used for colouring and filtering.
type Category string

const (
	CategoryFood      Category = "Food & Dining"
	CategoryTransport Category = "Transportation"
	CategoryBills     Category = "Bills & Utilities"
	CategoryIncome    Category = "Income"
	CategoryTransfer  Category = "Transfer"
	CategoryPayment   Category = "Payment"
	CategoryOther     Category = "Other"
)

// Categories lists the fixed category set.
var Categories = []Category{
	CategoryFood, CategoryTransport, CategoryBills, CategoryIncome,
	CategoryTransfer, CategoryPayment, CategoryOther,
}

// Transaction is a single ledger row, either fetched from the backend,
// read from the local cache or synthesized offline.
type Transaction struct {
	ID                     string
	Date                   time.Time
	Description            string
	Amount                 decimal.Decimal // non-negative magnitude
	Type                   TransactionType
	AccountType            AccountType
	Category               Category
	Reference              string
	RecipientName          string
	RecipientAccountNumber string
	ToAccount              AccountType
	Balance                decimal.NullDecimal // running balance, derived
}

// SignedAmount returns +Amount for balance-increasing rows and -Amount otherwise.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type.Increases() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// transactionJSON is the wire shape shared by the backend and the local cache.
type transactionJSON struct {
	ID                     flexibleID       `json:"id"`
	Date                   string           `json:"date"`
	Description            string           `json:"description"`
	Amount                 decimal.Decimal  `json:"amount"`
	Type                   TransactionType  `json:"type"`
	AccountType            AccountType      `json:"accountType,omitempty"`
	Category               Category         `json:"category,omitempty"`
	Reference              string           `json:"reference,omitempty"`
	RecipientName          string           `json:"recipientName,omitempty"`
	RecipientAccountNumber string           `json:"recipientAccountNumber,omitempty"`
	ToAccount              AccountType      `json:"toAccount,omitempty"`
	Balance                *decimal.Decimal `json:"balance,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Transaction) MarshalJSON() ([]byte, error) {
	w := transactionJSON{
		ID:                     flexibleID(t.ID),
		Date:                   t.Date.Format(time.RFC3339Nano),
		Description:            t.Description,
		Amount:                 t.Amount,
		Type:                   t.Type,
		AccountType:            t.AccountType,
		Category:               t.Category,
		Reference:              t.Reference,
		RecipientName:          t.RecipientName,
		RecipientAccountNumber: t.RecipientAccountNumber,
		ToAccount:              t.ToAccount,
	}
	if t.Balance.Valid {
		b := t.Balance.Decimal
		w.Balance = &b
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. Dates may be full timestamps
// or plain YYYY-MM-DD strings.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var date time.Time
	if w.Date != "" {
		d, err := ParseDate(w.Date)
		if err != nil {
			return fmt.Errorf("transaction %q: %w", w.ID, err)
		}
		date = d
	}

	*t = Transaction{
		ID:                     string(w.ID),
		Date:                   date,
		Description:            w.Description,
		Amount:                 w.Amount,
		Type:                   w.Type,
		AccountType:            w.AccountType,
		Category:               w.Category,
		Reference:              w.Reference,
		RecipientName:          w.RecipientName,
		RecipientAccountNumber: w.RecipientAccountNumber,
		ToAccount:              w.ToAccount,
	}
	if w.Balance != nil {
		t.Balance = decimal.NewNullDecimal(*w.Balance)
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses the date formats the backend and the cache emit.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: unrecognised format", s)
}
