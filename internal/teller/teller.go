// Package teller owns the I/O around the ledger engine. Reads go to the
// backend first and fall back to the local cache; mutations that cannot
// reach the backend are synthesized offline and written to the cache.
package teller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerview/internal/activitylog"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/logging"
	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/remote"
	"github.com/cleared-dev/ledgerview/internal/store"
)

// ErrSuperseded is returned by a fetch that finished after a newer fetch or
// write started. Its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrNotFound is returned when a transaction to delete is not known.
var ErrNotFound = errors.New("transaction not found")

// Remote is the subset of the backend client the service uses.
type Remote interface {
	Transactions(ctx context.Context, account model.AccountType) ([]model.Transaction, error)
	Balances(ctx context.Context) (model.Balances, error)
	Payments(ctx context.Context) ([]model.Payment, error)
	Profile(ctx context.Context) (model.Profile, error)
	Cards(ctx context.Context) ([]model.Card, error)
	Dashboard(ctx context.Context) (model.Dashboard, error)
	Submit(ctx context.Context, op ledger.Operation, p ledger.Payload, on time.Time) (model.Transaction, error)
	Delete(ctx context.Context, txnID string) error
}

// Cache is the local persisted copy of the customer's data.
type Cache interface {
	Transactions() ([]model.Transaction, error)
	SaveTransactions(txns []model.Transaction) error
	Balances() (model.Balances, error)
	SaveBalances(b model.Balances) error
	User() (model.Profile, error)
	SaveUser(p model.Profile) error
}

// Recorder receives audit entries for offline changes.
type Recorder interface {
	Append(entries ...activitylog.Entry) error
}

// Source says where a snapshot's data came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceSeed   Source = "seed"
)

// Snapshot is the transaction list published by the latest fetch.
type Snapshot struct {
	Account      model.AccountType // empty for all accounts
	Transactions []model.Transaction
	Source       Source
	FetchedAt    time.Time
}

// Options configures a Service.
type Options struct {
	Remote      Remote
	Cache       Cache
	Activity    Recorder            // optional
	Synthesizer *ledger.Synthesizer // defaults to ledger.NewSynthesizer(nil)
	Seed        model.Balances      // balances used when neither backend nor cache has any
	Logger      *logrus.Logger
	Now         func() time.Time
}

// Service is the collaborator between the screens and the engine.
type Service struct {
	remote   Remote
	cache    Cache
	activity Recorder
	synth    *ledger.Synthesizer
	seed     model.Balances
	log      *logrus.Logger
	now      func() time.Time

	// mu guards the generations and latest, and serializes every cache
	// read-modify-write.
	mu     sync.Mutex
	txnGen map[model.AccountType]uint64 // per account; "" is the all-accounts fetch
	balGen uint64
	latest Snapshot
}

// NewService returns a Service. Remote and Cache are required.
func NewService(opts Options) *Service {
	s := &Service{
		remote:   opts.Remote,
		cache:    opts.Cache,
		activity: opts.Activity,
		synth:    opts.Synthesizer,
		seed:     opts.Seed.Clone(),
		log:      opts.Logger,
		now:      opts.Now,
		txnGen:   make(map[model.AccountType]uint64),
	}
	if s.synth == nil {
		s.synth = ledger.NewSynthesizer(nil)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Latest returns the most recently published snapshot.
func (s *Service) Latest() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// beginRefresh starts a transaction fetch for account and returns its
// generation.
func (s *Service) beginRefresh(account model.AccountType) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpTransactions(account)
	return s.txnGen[account]
}

// bumpTransactions supersedes in-flight fetches that overlap account. The
// all-accounts fetch overlaps every account; an empty account is also what
// a cache write uses. Callers hold mu.
func (s *Service) bumpTransactions(account model.AccountType) {
	if account != "" {
		s.txnGen[account]++
		s.txnGen[""]++
		return
	}
	s.txnGen[""]++
	for t := range s.txnGen {
		if t != "" {
			s.txnGen[t]++
		}
	}
}

// beginBalances starts a balances fetch and returns its generation.
func (s *Service) beginBalances() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balGen++
	return s.balGen
}

// bumpWrites supersedes every in-flight fetch after a local cache write.
// Callers hold mu.
func (s *Service) bumpWrites() {
	s.bumpTransactions("")
	s.balGen++
}

// recoverable reports whether err means the backend could not be used, so
// cached data may stand in.
func recoverable(err error) bool {
	var netErr *remote.NetworkError
	return errors.As(err, &netErr)
}

// cachedTransactions loads the cached list. Missing or unreadable caches
// yield an empty list. Callers hold mu.
func (s *Service) cachedTransactions() []model.Transaction {
	txns, err := s.cache.Transactions()
	if err != nil {
		s.logCacheMiss(store.KeyTransactions, err)
		return nil
	}
	return txns
}

// currentBalances loads the cached balances, falling back to the seed.
// Callers hold mu.
func (s *Service) currentBalances() (model.Balances, Source) {
	b, err := s.cache.Balances()
	if err != nil {
		s.logCacheMiss(store.KeyBalances, err)
		return s.seed.Clone(), SourceSeed
	}
	return b, SourceCache
}

func (s *Service) logCacheMiss(key string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.log.WithField("key", key).Debug("teller.CacheEmpty")
		return
	}
	s.log.WithError(err).WithField("key", key).Warn("teller.CacheUnreadable")
}

func (s *Service) record(entries []activitylog.Entry) {
	if s.activity == nil || len(entries) == 0 {
		return
	}
	if err := s.activity.Append(entries...); err != nil {
		s.log.WithError(err).Warn("teller.ActivityLogFailed")
	}
}

func forAccount(txns []model.Transaction, account model.AccountType) []model.Transaction {
	if account == "" {
		return txns
	}
	return ledger.Filter(txns, ledger.FilterSpec{AccountType: account})
}

// replaceAccount swaps the cached rows of account for fresh ones, keeping
// the rows of other accounts. An empty account replaces everything.
func replaceAccount(cached, fresh []model.Transaction, account model.AccountType) []model.Transaction {
	if account == "" {
		return fresh
	}
	out := make([]model.Transaction, 0, len(cached)+len(fresh))
	for _, t := range cached {
		if t.AccountType != account {
			out = append(out, t)
		}
	}
	return append(out, fresh...)
}

func superseded(op string) error {
	return fmt.Errorf("%s: %w", op, ErrSuperseded)
}
