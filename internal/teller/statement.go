package teller

import (
	"context"

	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// StatementRequest selects and shapes a statement.
type StatementRequest struct {
	Account         model.AccountType // empty for all accounts
	IncludePayments bool
	View            ledger.ViewOptions
}

// Statement is a display-ready statement plus where its rows came from.
type Statement struct {
	ledger.View
	Source Source
}

// Statement refreshes the rows of the requested account, merges in the
// payment history when asked and the backend is reachable, and builds the
// view.
func (s *Service) Statement(ctx context.Context, req StatementRequest) (Statement, error) {
	snap, err := s.Refresh(ctx, req.Account)
	if err != nil {
		return Statement{}, err
	}

	txns := snap.Transactions
	if req.IncludePayments && snap.Source == SourceRemote {
		payments, err := s.remote.Payments(ctx)
		if err != nil {
			s.log.WithError(err).Warn("teller.PaymentsUnavailable")
		} else {
			txns = ledger.MergePayments(txns, payments, req.Account)
		}
	}

	return Statement{View: ledger.BuildView(txns, req.View), Source: snap.Source}, nil
}
