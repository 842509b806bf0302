package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerview/internal/model"
)

func TestMergePayments(t *testing.T) {
	rows := []model.Transaction{txn("t1", date(2024, 1, 1), model.TypeCredit, "100")}
	payments := []model.Payment{
		{ID: "7", Date: date(2024, 1, 2), Description: "Rent", Amount: dec("60"), Reference: "REF7"},
		{ID: "8", Date: date(2024, 1, 3), RecipientName: "Sipho", Amount: dec("10")},
	}

	got := MergePayments(rows, payments, model.AccountCurrent)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"t1", "payment-7", "payment-8"}, ids(got))
	assert.Equal(t, "Payment: Rent", got[1].Description)
	assert.Equal(t, "Payment: Sipho", got[2].Description)
	assert.Equal(t, model.TypeDebit, got[1].Type)
	assert.Equal(t, model.AccountCurrent, got[2].AccountType)
	assert.Equal(t, "REF7", got[1].Reference)
	assert.Len(t, rows, 1)
}

func TestBuildView_NewestFirstWithFilteredSummary(t *testing.T) {
	v := BuildView(sampleRows(), ViewOptions{
		Seed:      dec("100"),
		Filter:    FilterSpec{AccountType: model.AccountCurrent},
		Direction: Descending,
	})

	assert.Equal(t, []string{"t4", "t3", "t2", "t1"}, ids(v.Rows))
	assert.Equal(t, []string{"4134.50", "4180.00", "4980.00", "5100.00"}, balances(v.Rows))
	assert.Equal(t, 4, v.Summary.Count)
	assert.Equal(t, "5100.00", v.Summary.OpeningBalance.StringFixed(2))
	assert.Equal(t, "4134.50", v.Summary.ClosingBalance.StringFixed(2))
	assert.Nil(t, v.Groups)
}

func TestBuildView_SortAndGroup(t *testing.T) {
	v := BuildView(sampleRows(), ViewOptions{
		SortKey:   SortAmount,
		Direction: Descending,
		Group:     true,
	})
	assert.Equal(t, []string{"t1", "t3", "t5", "t2", "t4"}, ids(v.Rows))
	require.Len(t, v.Groups, 4)
	assert.Equal(t, []string{"t5", "t4"}, ids(v.Groups[0].Transactions))
}

func TestBuildView_Empty(t *testing.T) {
	v := BuildView(nil, ViewOptions{Seed: decimal.NewFromInt(10)})
	assert.Empty(t, v.Rows)
	assert.True(t, v.Summary.ClosingBalance.IsZero())
}
