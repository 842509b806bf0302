// Package store persists the client-side cache: one JSON document per key
// in a single directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// Cache keys, named after the browser storage keys of the web client.
const (
	KeyTransactions = "banking_transactions"
	KeyBalances     = "banking_account_balances"
	KeyUser         = "banking_user"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("not found")

// PersistenceError reports a failed read or write of one cache key.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store is a directory-backed key/value cache.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get decodes the document stored under key into v. A missing key yields an
// error wrapping ErrNotFound.
func (s *Store) Get(key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &PersistenceError{Key: key, Err: ErrNotFound}
		}
		return &PersistenceError{Key: key, Err: fmt.Errorf("reading: %w", err)}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &PersistenceError{Key: key, Err: fmt.Errorf("decoding: %w", err)}
	}
	return nil
}

// Put replaces the document stored under key. The write goes to a temp file
// that is renamed over the old one, so readers never see a partial document.
func (s *Store) Put(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Key: key, Err: fmt.Errorf("encoding: %w", err)}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &PersistenceError{Key: key, Err: fmt.Errorf("creating cache dir: %w", err)}
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return &PersistenceError{Key: key, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Key: key, Err: fmt.Errorf("writing: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Key: key, Err: fmt.Errorf("closing: %w", err)}
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return &PersistenceError{Key: key, Err: fmt.Errorf("renaming: %w", err)}
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &PersistenceError{Key: key, Err: err}
	}
	return nil
}

// Transactions returns the cached transaction list.
func (s *Store) Transactions() ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := s.Get(KeyTransactions, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// SaveTransactions replaces the cached transaction list.
func (s *Store) SaveTransactions(txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	return s.Put(KeyTransactions, txns)
}

// Balances returns the cached balances.
func (s *Store) Balances() (model.Balances, error) {
	var b model.Balances
	if err := s.Get(KeyBalances, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// SaveBalances replaces the cached balances.
func (s *Store) SaveBalances(b model.Balances) error {
	return s.Put(KeyBalances, b)
}

// User returns the cached profile.
func (s *Store) User() (model.Profile, error) {
	var p model.Profile
	if err := s.Get(KeyUser, &p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// SaveUser replaces the cached profile.
func (s *Store) SaveUser(p model.Profile) error {
	return s.Put(KeyUser, p)
}
