package teller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerview/internal/accounts"
	"github.com/cleared-dev/ledgerview/internal/activitylog"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/remote"
	"github.com/cleared-dev/ledgerview/internal/store"
)

func payPayload(amount string) ledger.Payload {
	return ledger.Payload{
		AccountType:            model.AccountCurrent,
		Amount:                 dec(amount),
		Description:            "Rent",
		RecipientName:          "Landlord",
		RecipientAccountNumber: "123",
	}
}

func TestSubmit_Remote(t *testing.T) {
	f := newFixture(t)
	f.remote.created = row("99", 5, "40", model.TypeDebit, model.AccountCurrent)
	f.remote.balances = model.Balances{model.AccountCurrent: dec("24960"), model.AccountSavings: dec("50000")}

	res, err := f.svc.Submit(context.Background(), ledger.OpPay, payPayload("40"))
	require.NoError(t, err)
	assert.False(t, res.Offline)
	assert.Equal(t, []string{"99"}, ids(res.Transactions))
	assert.True(t, res.Balances.Get(model.AccountCurrent).Equal(dec("24960")))

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Equal(t, []string{"99"}, ids(cached))

	entries, err := f.activity.Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmit_OfflinePay(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SaveTransactions([]model.Transaction{row("t1", 1, "100", model.TypeCredit, model.AccountCurrent)}))
	f.remote.err = errDown

	res, err := f.svc.Submit(context.Background(), ledger.OpPay, payPayload("40"))
	require.NoError(t, err)
	assert.True(t, res.Offline)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "mock-1", res.Transactions[0].ID)
	assert.True(t, res.Balances.Get(model.AccountCurrent).Equal(dec("24960")))
	assert.True(t, res.Balances.Get(model.AccountSavings).Equal(dec("50000")))

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "mock-1"}, ids(cached))

	b, err := f.cache.Balances()
	require.NoError(t, err)
	assert.True(t, b.Equal(res.Balances))

	entries, err := f.activity.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activitylog.ActionOfflinePay, entries[0].Action)
	assert.True(t, entries[0].Amount.Equal(dec("-40")))
}

func TestSubmit_OfflineTransferUsesCachedBalances(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SaveBalances(model.Balances{model.AccountCurrent: dec("100"), model.AccountSavings: dec("0")}))
	f.remote.err = errDown

	res, err := f.svc.Submit(context.Background(), ledger.OpTransfer, ledger.Payload{
		AccountType: model.AccountCurrent,
		Amount:      dec("60"),
		ToAccount:   model.AccountSavings,
	})
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 2)
	assert.True(t, res.Balances.Get(model.AccountCurrent).Equal(dec("40")))
	assert.True(t, res.Balances.Get(model.AccountSavings).Equal(dec("60")))

	_, err = f.svc.Submit(context.Background(), ledger.OpTransfer, ledger.Payload{
		AccountType: model.AccountCurrent,
		Amount:      dec("60"),
		ToAccount:   model.AccountSavings,
	})
	var verr ledger.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	b, err := f.cache.Balances()
	require.NoError(t, err)
	assert.True(t, b.Get(model.AccountCurrent).Equal(dec("40")), "rejected request leaves balances alone")
}

func TestSubmit_OfflineRejectionWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.remote.err = errDown

	_, err := f.svc.Submit(context.Background(), ledger.OpPay, payPayload("0"))
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = f.cache.Transactions()
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = f.cache.Balances()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit_StatusErrorHasNoFallback(t *testing.T) {
	f := newFixture(t)
	f.remote.err = &remote.StatusError{Op: "pay", StatusCode: 400, Body: "insufficient funds"}

	_, err := f.svc.Submit(context.Background(), ledger.OpPay, payPayload("40"))
	var statusErr *remote.StatusError
	require.True(t, errors.As(err, &statusErr))

	_, err = f.cache.Transactions()
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmit_ConcurrentOfflineDepositsAreAtomic(t *testing.T) {
	f := newFixture(t)
	f.remote.err = errDown
	f.svc.synth.NewID = func() string { return "mock" }

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), ledger.OpDeposit, ledger.Payload{
				AccountType: model.AccountSavings,
				Amount:      dec("1"),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	b, err := f.cache.Balances()
	require.NoError(t, err)
	assert.True(t, b.Get(model.AccountSavings).Equal(dec("50020")), "got %s", b.Get(model.AccountSavings))

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Len(t, cached, 20)
}

func TestSubmit_OfflineWriteSupersedesInflightRefresh(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.remote.txnsFn = func(ctx context.Context, account model.AccountType) ([]model.Transaction, error) {
		close(entered)
		<-release
		return []model.Transaction{}, nil
	}
	f.remote.err = errDown

	errc := make(chan error, 1)
	go func() {
		_, err := f.svc.Refresh(context.Background(), "")
		errc <- err
	}()
	<-entered

	_, err := f.svc.Submit(context.Background(), ledger.OpDeposit, ledger.Payload{AccountType: model.AccountCurrent, Amount: dec("5")})
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-errc, ErrSuperseded)

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Equal(t, []string{"mock-1"}, ids(cached))
}

func TestDelete_MockRowIsLocalOnly(t *testing.T) {
	f := newFixture(t)
	f.remote.err = errDown
	res, err := f.svc.Submit(context.Background(), ledger.OpPay, payPayload("40"))
	require.NoError(t, err)

	removed, err := f.svc.Delete(context.Background(), res.Transactions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "mock-1", removed.ID)
	assert.Empty(t, f.remote.deleted)

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Empty(t, cached)

	b, err := f.cache.Balances()
	require.NoError(t, err)
	assert.True(t, b.Get(model.AccountCurrent).Equal(dec("25000")))

	entries, err := f.activity.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, activitylog.ActionDelete, entries[1].Action)
}

func TestDelete_RemoteRow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SaveTransactions([]model.Transaction{row("41", 1, "100", model.TypeCredit, model.AccountCurrent)}))
	require.NoError(t, f.cache.SaveBalances(model.Balances{model.AccountCurrent: dec("100")}))

	_, err := f.svc.Delete(context.Background(), "41")
	require.NoError(t, err)
	assert.Equal(t, []string{"41"}, f.remote.deleted)

	b, err := f.cache.Balances()
	require.NoError(t, err)
	assert.True(t, b.Get(model.AccountCurrent).IsZero())
}

func TestDelete_RemoteUnreachableStillRemovesLocally(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SaveTransactions([]model.Transaction{row("41", 1, "100", model.TypeDebit, model.AccountCurrent)}))
	f.remote.err = errDown

	_, err := f.svc.Delete(context.Background(), "41")
	require.NoError(t, err)

	entries, err := f.activity.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, activitylog.ActionRemoteDelete, entries[0].Action)
	assert.Equal(t, activitylog.ActionDelete, entries[1].Action)
}

func TestDelete_Errors(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Delete(context.Background(), "mock-unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	f.remote.err = &remote.StatusError{Op: "deleteTransaction", StatusCode: 404}
	_, err = f.svc.Delete(context.Background(), "77")
	var statusErr *remote.StatusError
	assert.True(t, errors.As(err, &statusErr))
}

// balanceWriteFails is a cache whose balance writes always fail.
type balanceWriteFails struct {
	*store.Store
}

func (balanceWriteFails) SaveBalances(model.Balances) error {
	return errors.New("disk full")
}

func (f *fixture) withFailingBalanceWrites() *Service {
	return NewService(Options{
		Remote:   f.remote,
		Cache:    balanceWriteFails{f.cache},
		Activity: f.activity,
		Seed:     accounts.DefaultSeedBalances(),
		Now:      func() time.Time { return fixedNow },
	})
}

func TestSubmit_OfflineBalanceWriteFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	seeded := []model.Transaction{row("t1", 1, "100", model.TypeCredit, model.AccountCurrent)}
	require.NoError(t, f.cache.SaveTransactions(seeded))
	f.remote.err = errDown
	svc := f.withFailingBalanceWrites()

	_, err := svc.Submit(context.Background(), ledger.OpPay, payPayload("40"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids(cached))

	_, err = f.cache.Balances()
	assert.ErrorIs(t, err, store.ErrNotFound)

	entries, err := f.activity.Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete_BalanceWriteFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	seeded := []model.Transaction{
		row("mock-a", 1, "100", model.TypeCredit, model.AccountCurrent),
		row("mock-b", 2, "30", model.TypeDebit, model.AccountCurrent),
	}
	require.NoError(t, f.cache.SaveTransactions(seeded))
	require.NoError(t, f.cache.SaveBalances(model.Balances{model.AccountCurrent: dec("70")}))
	svc := f.withFailingBalanceWrites()

	_, err := svc.Delete(context.Background(), "mock-b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	cached, err := f.cache.Transactions()
	require.NoError(t, err)
	assert.Equal(t, []string{"mock-a", "mock-b"}, ids(cached))

	b, err := f.cache.Balances()
	require.NoError(t, err)
	assert.True(t, b.Get(model.AccountCurrent).Equal(dec("70")))
	assert.Empty(t, f.remote.deleted)
}
