// Package activitylog keeps an append-only CSV record of changes made to the
// local cache without the backend: offline pay, transfer and deposit
// synthesis, and deletions.
package activitylog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// Action names what happened to the cache.
type Action string

const (
	ActionOfflinePay      Action = "offline_pay"
	ActionOfflineTransfer Action = "offline_transfer"
	ActionOfflineDeposit  Action = "offline_deposit"
	ActionDelete          Action = "delete"
	ActionRemoteDelete    Action = "remote_delete_failed"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp     time.Time
	Action        Action
	Account       model.AccountType
	Amount        decimal.Decimal
	TransactionID string
	Details       string
}

// Header is the CSV header of activity-log.csv.
const Header = "timestamp,action,account,amount,transaction_id,details"

// FileName is the log file inside the cache directory.
const FileName = "activity-log.csv"

const (
	numFields        = 6
	colTimestamp     = 0
	colAction        = 1
	colAccount       = 2
	colAmount        = 3
	colTransactionID = 4
	colDetails       = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colAccount] = string(e.Account)
	row[colAmount] = e.Amount.StringFixed(2)
	row[colTransactionID] = e.TransactionID
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return Entry{
		Timestamp:     ts,
		Action:        Action(record[colAction]),
		Account:       model.AccountType(record[colAccount]),
		Amount:        amount,
		TransactionID: record[colTransactionID],
		Details:       record[colDetails],
	}, nil
}

// Log appends entries to <dir>/activity-log.csv.
type Log struct {
	dir string
}

// New returns a Log stored in dir.
func New(dir string) *Log {
	return &Log{dir: dir}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return filepath.Join(l.dir, FileName)
}

// Append writes entries, creating the file and header if needed.
func (l *Log) Append(entries ...Entry) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := l.Path()
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries. A missing file yields no entries.
func (l *Log) Read() ([]Entry, error) {
	f, err := os.Open(l.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ForOutcome returns one entry per synthesized row of an offline operation.
func ForOutcome(action Action, txns []model.Transaction) []Entry {
	entries := make([]Entry, 0, len(txns))
	for _, t := range txns {
		entries = append(entries, Entry{
			Timestamp:     t.Date,
			Action:        action,
			Account:       t.AccountType,
			Amount:        t.SignedAmount(),
			TransactionID: t.ID,
			Details:       t.Description,
		})
	}
	return entries
}
