package id

import (
	"strings"

	"github.com/google/uuid"
)

const (
	mockPrefix    = "mock-"
	paymentPrefix = "payment-"
)

// NewMock returns a fresh identifier for a transaction synthesized offline,
// like "mock-6f1c0d2e-...".
func NewMock() string {
	return mockPrefix + uuid.NewString()
}

// IsMock reports whether id was generated locally rather than by the backend.
func IsMock(id string) bool {
	return strings.HasPrefix(id, mockPrefix)
}

// Payment returns the row identifier for a payment merged into a statement.
// "42" -> "payment-42"
func Payment(paymentID string) string {
	return paymentPrefix + paymentID
}

// IsPayment reports whether id was derived from a payment record.
func IsPayment(id string) bool {
	return strings.HasPrefix(id, paymentPrefix)
}
