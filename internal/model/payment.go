package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row from the payments endpoint. Statements merge payments
// into the transaction list as debits.
type Payment struct {
	ID                     string
	Date                   time.Time
	Description            string
	Amount                 decimal.Decimal
	Reference              string
	Balance                decimal.NullDecimal
	RecipientName          string
	RecipientAccountNumber string
	User                   string
}

type paymentJSON struct {
	ID                     flexibleID       `json:"id"`
	Date                   string           `json:"date"`
	Description            string           `json:"description,omitempty"`
	Amount                 decimal.Decimal  `json:"amount"`
	Reference              string           `json:"reference,omitempty"`
	Balance                *decimal.Decimal `json:"balance,omitempty"`
	RecipientName          string           `json:"recipientName,omitempty"`
	RecipientAccountNumber string           `json:"recipientAccountNumber,omitempty"`
	User                   string           `json:"user,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. The backend sends numeric ids.
func (p *Payment) UnmarshalJSON(data []byte) error {
	var w paymentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var date time.Time
	if w.Date != "" {
		d, err := ParseDate(w.Date)
		if err != nil {
			return err
		}
		date = d
	}
	*p = Payment{
		ID:                     string(w.ID),
		Date:                   date,
		Description:            w.Description,
		Amount:                 w.Amount,
		Reference:              w.Reference,
		RecipientName:          w.RecipientName,
		RecipientAccountNumber: w.RecipientAccountNumber,
		User:                   w.User,
	}
	if w.Balance != nil {
		p.Balance = decimal.NewNullDecimal(*w.Balance)
	}
	return nil
}

// flexibleID accepts both numeric and string identifiers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// Card is a payment card shown on the cards screen.
type Card struct {
	Type   string `json:"type"`
	Number string `json:"number"`
	Expiry string `json:"expiry"`
}

// Profile is the signed-in customer's display profile.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Dashboard is the summary object behind the dashboard screen.
type Dashboard struct {
	CreditLimit  decimal.Decimal `json:"creditLimit"`
	Spend        decimal.Decimal `json:"spend"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Payments     []Payment       `json:"payments"`
}
