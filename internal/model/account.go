package model

import "github.com/shopspring/decimal"

// AccountType identifies which of the customer's accounts a row belongs to.
type AccountType string

const (
	AccountCurrent AccountType = "current"
	AccountSavings AccountType = "savings"
)

// AccountTypes lists the known account types in display order.
var AccountTypes = []AccountType{AccountCurrent, AccountSavings}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == AccountCurrent || t == AccountSavings
}

// Balances maps an account type to its current balance. It is a cached
// projection of the transaction list, never the source of truth.
type Balances map[AccountType]decimal.Decimal

// Get returns the balance for t, or zero when the account has no entry.
func (b Balances) Get(t AccountType) decimal.Decimal {
	if v, ok := b[t]; ok {
		return v
	}
	return decimal.Zero
}

// Clone returns an independent copy of b. A nil map clones to an empty one.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same balances.
// Missing entries compare equal to zero.
func (b Balances) Equal(other Balances) bool {
	for _, t := range keysOf(b, other) {
		if !b.Get(t).Equal(other.Get(t)) {
			return false
		}
	}
	return true
}

func keysOf(maps ...Balances) []AccountType {
	seen := make(map[AccountType]bool)
	var keys []AccountType
	for _, m := range maps {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Account is the display record for one of the customer's accounts.
type Account struct {
	Type        AccountType
	Name        string
	Number      string
	Description string
}
