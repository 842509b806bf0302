package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrUnknownAccount     = errors.New("unknown source account")
	ErrMissingRecipient   = errors.New("recipient name and account number are required")
	ErrInvalidDestination = errors.New("invalid destination account")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnknownOperation   = errors.New("unknown operation")
)

// ValidationError describes why an offline transaction was rejected.
// Reason is one of the Err* sentinels above.
type ValidationError struct {
	Op     Operation
	Reason error
	Detail string
}

func (e ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s rejected: %v", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s rejected: %v (%s)", e.Op, e.Reason, e.Detail)
}

func (e ValidationError) Unwrap() error {
	return e.Reason
}
