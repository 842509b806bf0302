// Package remote is the HTTP client for the banking backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/logging"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// DefaultBaseURL is where the backend listens in local development.
const DefaultBaseURL = "http://localhost:8080"

const (
	// DefaultTimeout bounds a single call when the caller sets none.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 512
)

// Client calls the backend REST endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// NewClient returns a Client for baseURL. A zero timeout selects
// DefaultTimeout; a nil logger discards output.
func NewClient(baseURL string, timeout time.Duration, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Transactions fetches every transaction, or only those of account when it
// is non-empty.
func (c *Client) Transactions(ctx context.Context, account model.AccountType) ([]model.Transaction, error) {
	path := "/api/transactions"
	if account != "" {
		path += "/" + url.PathEscape(string(account))
	}
	var txns []model.Transaction
	if err := c.do(ctx, "fetchTransactions", http.MethodGet, path, nil, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// Balances fetches the per-account balances.
func (c *Client) Balances(ctx context.Context) (model.Balances, error) {
	var b model.Balances
	if err := c.do(ctx, "fetchBalances", http.MethodGet, "/api/accounts/balances", nil, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// Dashboard fetches the dashboard figures.
func (c *Client) Dashboard(ctx context.Context) (model.Dashboard, error) {
	var d model.Dashboard
	err := c.do(ctx, "fetchDashboard", http.MethodGet, "/api/dashboard", nil, &d)
	return d, err
}

// Cards fetches the customer's cards.
func (c *Client) Cards(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := c.do(ctx, "fetchCards", http.MethodGet, "/api/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Payments fetches the payment history.
func (c *Client) Payments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := c.do(ctx, "fetchPayments", http.MethodGet, "/api/payments", nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// Profile fetches the signed-in customer's profile.
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	err := c.do(ctx, "fetchProfile", http.MethodGet, "/api/profile", nil, &p)
	return p, err
}

// submitRequest is the POST body of pay, transfer and deposit.
type submitRequest struct {
	AccountType            model.AccountType `json:"accountType"`
	Amount                 json.Number       `json:"amount"`
	Description            string            `json:"description"`
	Type                   string            `json:"type"`
	Date                   string            `json:"date"`
	RecipientName          string            `json:"recipientName,omitempty"`
	RecipientAccountNumber string            `json:"recipientAccountNumber,omitempty"`
	ToAccount              model.AccountType `json:"toAccount,omitempty"`
}

// Submit posts a pay, transfer or deposit request dated on. The backend
// answers with the transaction it created.
func (c *Client) Submit(ctx context.Context, op ledger.Operation, p ledger.Payload, on time.Time) (model.Transaction, error) {
	req := submitRequest{
		AccountType: p.AccountType,
		Amount:      json.Number(p.Amount.String()),
		Description: p.Description,
		Type:        string(submitType(op)),
		Date:        on.Format(time.DateOnly),
	}
	switch op {
	case ledger.OpPay:
		req.RecipientName = p.RecipientName
		req.RecipientAccountNumber = p.RecipientAccountNumber
	case ledger.OpTransfer:
		req.ToAccount = p.ToAccount
	}

	var created model.Transaction
	err := c.do(ctx, string(op), http.MethodPost, "/api/transactions/"+string(op), req, &created)
	return created, err
}

func submitType(op ledger.Operation) model.TransactionType {
	switch op {
	case ledger.OpPay:
		return model.TypeDebit
	case ledger.OpDeposit:
		return model.TypeDeposit
	default:
		return model.TypeTransfer
	}
}

// Delete removes a transaction on the backend.
func (c *Client) Delete(ctx context.Context, txnID string) error {
	return c.do(ctx, "deleteTransaction", http.MethodDelete, "/api/transactions/"+url.PathEscape(txnID), nil, nil)
}

// do performs one call. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	target := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{"op": op, "url": target})
	elapsed := logging.StartTimer()

	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).WithField("durationMs", elapsed()).Warn("remote.Unreachable")
		return &NetworkError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	entry = entry.WithFields(logrus.Fields{"status": resp.StatusCode, "durationMs": elapsed()})

	switch {
	case resp.StatusCode >= 500:
		entry.Warn("remote.ServerError")
		return &NetworkError{Op: op, URL: target, Err: fmt.Errorf("server returned %s", resp.Status)}
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		entry.Info("remote.Rejected")
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			entry.WithError(err).Warn("remote.BadBody")
			return &NetworkError{Op: op, URL: target, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}

	entry.Debug("remote.Complete")
	return nil
}
