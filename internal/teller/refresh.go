package teller

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/store"
)

// Refresh fetches the transactions of account (all accounts when empty).
// When the backend is unreachable the cached rows are returned instead and
// the cache is left untouched. Only the newest call publishes its result;
// older ones return ErrSuperseded.
func (s *Service) Refresh(ctx context.Context, account model.AccountType) (Snapshot, error) {
	gen := s.beginRefresh(account)
	fetched, err := s.remote.Transactions(ctx, account)
	if err != nil && !recoverable(err) {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.txnGen[account] {
		return Snapshot{}, superseded("refreshing transactions")
	}

	snap := Snapshot{Account: account, FetchedAt: s.now()}
	if err != nil {
		s.log.WithError(err).WithField("account", account).Warn("teller.UsingCache")
		snap.Transactions = forAccount(s.cachedTransactions(), account)
		snap.Source = SourceCache
		s.latest = snap
		return snap, nil
	}

	if fetched == nil {
		fetched = []model.Transaction{}
	}
	merged := replaceAccount(s.cachedTransactions(), fetched, account)
	if err := s.cache.SaveTransactions(merged); err != nil {
		s.log.WithError(err).Warn("teller.CacheWriteFailed")
	}

	snap.Transactions = fetched
	snap.Source = SourceRemote
	s.latest = snap
	s.log.WithFields(logrus.Fields{"account": account, "count": len(fetched)}).Debug("teller.Refreshed")
	return snap, nil
}

// Balances returns the per-account balances from the backend, then the
// cache, then the configured seed.
func (s *Service) Balances(ctx context.Context) (model.Balances, Source, error) {
	gen := s.beginBalances()
	b, err := s.remote.Balances(ctx)
	if err != nil && !recoverable(err) {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).Warn("teller.UsingCachedBalances")
		cached, src := s.currentBalances()
		return cached, src, nil
	}
	if gen != s.balGen {
		return nil, "", superseded("refreshing balances")
	}
	if err := s.cache.SaveBalances(b); err != nil {
		s.log.WithError(err).Warn("teller.CacheWriteFailed")
	}
	return b, SourceRemote, nil
}

// Profile returns the customer's profile, falling back to the cached copy.
func (s *Service) Profile(ctx context.Context) (model.Profile, Source, error) {
	p, err := s.remote.Profile(ctx)
	if err != nil {
		if !recoverable(err) {
			return model.Profile{}, "", err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		cached, cerr := s.cache.User()
		if cerr != nil {
			s.logCacheMiss(store.KeyUser, cerr)
			return model.Profile{}, "", err
		}
		return cached, SourceCache, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cache.SaveUser(p); err != nil {
		s.log.WithError(err).Warn("teller.CacheWriteFailed")
	}
	return p, SourceRemote, nil
}

// Cards returns the customer's cards. There is no cached copy.
func (s *Service) Cards(ctx context.Context) ([]model.Card, error) {
	return s.remote.Cards(ctx)
}

// Dashboard returns the dashboard figures. There is no cached copy.
func (s *Service) Dashboard(ctx context.Context) (model.Dashboard, error) {
	return s.remote.Dashboard(ctx)
}
