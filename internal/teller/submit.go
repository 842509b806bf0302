package teller

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgerview/internal/activitylog"
	"github.com/cleared-dev/ledgerview/internal/id"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// Result is the outcome of a pay, transfer or deposit.
type Result struct {
	Transactions []model.Transaction // rows created, by the backend or offline
	Balances     model.Balances      // balances after the change; nil when unknown
	Offline      bool                // true when the rows were synthesized locally
}

var offlineActions = map[ledger.Operation]activitylog.Action{
	ledger.OpPay:      activitylog.ActionOfflinePay,
	ledger.OpTransfer: activitylog.ActionOfflineTransfer,
	ledger.OpDeposit:  activitylog.ActionOfflineDeposit,
}

// Submit sends a pay, transfer or deposit to the backend. If the backend is
// unreachable the request is validated against the cached balances and
// applied to the cache instead. Validation failures leave the cache as it
// was.
func (s *Service) Submit(ctx context.Context, op ledger.Operation, p ledger.Payload) (Result, error) {
	created, err := s.remote.Submit(ctx, op, p, s.now())
	if err == nil {
		return s.storeCreated(ctx, created), nil
	}
	if !recoverable(err) {
		return Result{}, err
	}
	s.log.WithError(err).WithField("op", op).Warn("teller.SubmitOffline")
	return s.applyOffline(op, p)
}

// storeCreated appends a backend-created row to the cache and refreshes the
// cached balances.
func (s *Service) storeCreated(ctx context.Context, created model.Transaction) Result {
	balances, berr := s.remote.Balances(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpWrites()

	txns := append(s.cachedTransactions(), created)
	if err := s.cache.SaveTransactions(txns); err != nil {
		s.log.WithError(err).Warn("teller.CacheWriteFailed")
	}
	res := Result{Transactions: []model.Transaction{created}}
	if berr != nil {
		s.log.WithError(berr).Warn("teller.BalancesUnavailable")
		return res
	}
	if err := s.cache.SaveBalances(balances); err != nil {
		s.log.WithError(err).Warn("teller.CacheWriteFailed")
	}
	res.Balances = balances
	return res
}

// applyOffline validates and applies op against the cache as one atomic
// read-modify-write.
func (s *Service) applyOffline(op ledger.Operation, p ledger.Payload) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances, _ := s.currentBalances()
	outcome, err := s.synth.Apply(op, p, balances)
	if err != nil {
		return Result{}, err
	}

	// Fetches already in flight predate this write.
	s.bumpWrites()

	prev := s.cachedTransactions()
	txns := append(append([]model.Transaction(nil), prev...), outcome.Transactions...)
	if err := s.saveLedger(prev, txns, outcome.Balances); err != nil {
		return Result{}, fmt.Errorf("saving offline %s: %w", op, err)
	}

	s.record(activitylog.ForOutcome(offlineActions[op], outcome.Transactions))
	s.log.WithFields(logrus.Fields{"op": op, "rows": len(outcome.Transactions)}).Info("teller.OfflineApplied")
	return Result{Transactions: outcome.Transactions, Balances: outcome.Balances, Offline: true}, nil
}

// Delete removes a transaction. Rows the backend knows about are deleted
// there first; when the backend is unreachable the local removal still
// happens. The cached balances are adjusted to back out the row.
func (s *Service) Delete(ctx context.Context, txnID string) (model.Transaction, error) {
	remoteDone := false
	if !id.IsMock(txnID) && !id.IsPayment(txnID) {
		err := s.remote.Delete(ctx, txnID)
		switch {
		case err == nil:
			remoteDone = true
		case recoverable(err):
			s.log.WithError(err).WithField("id", txnID).Warn("teller.DeleteOffline")
			s.record([]activitylog.Entry{{
				Timestamp:     s.now(),
				Action:        activitylog.ActionRemoteDelete,
				TransactionID: txnID,
				Details:       err.Error(),
			}})
		default:
			return model.Transaction{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpWrites()

	prev := s.cachedTransactions()
	rest, removed, ok := ledger.Remove(prev, txnID)
	if !ok {
		if remoteDone {
			return model.Transaction{ID: txnID}, nil
		}
		return model.Transaction{}, fmt.Errorf("deleting %s: %w", txnID, ErrNotFound)
	}

	balances, _ := s.currentBalances()
	if err := s.saveLedger(prev, rest, ledger.Reverse(removed, balances)); err != nil {
		return model.Transaction{}, fmt.Errorf("deleting %s: %w", txnID, err)
	}

	s.record([]activitylog.Entry{{
		Timestamp:     s.now(),
		Action:        activitylog.ActionDelete,
		Account:       removed.AccountType,
		Amount:        removed.SignedAmount(),
		TransactionID: removed.ID,
		Details:       removed.Description,
	}})
	return removed, nil
}

// saveLedger writes the transaction list and then the balances. If the
// balances write fails the previous list is put back, so the cached rows
// and balances never disagree. Callers hold mu.
func (s *Service) saveLedger(prev, txns []model.Transaction, balances model.Balances) error {
	if err := s.cache.SaveTransactions(txns); err != nil {
		return err
	}
	if err := s.cache.SaveBalances(balances); err != nil {
		if rerr := s.cache.SaveTransactions(prev); rerr != nil {
			s.log.WithError(rerr).Error("teller.CacheRollbackFailed")
		}
		return fmt.Errorf("saving balances: %w", err)
	}
	return nil
}
