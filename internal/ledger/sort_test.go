package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerview/internal/model"
)

func TestSortBy_Amount(t *testing.T) {
	rows := sampleRows()

	asc := SortBy(rows, SortAmount, Ascending)
	assert.Equal(t, []string{"t4", "t2", "t5", "t3", "t1"}, ids(asc))

	desc := SortBy(rows, SortAmount, Descending)
	assert.Equal(t, []string{"t1", "t3", "t5", "t2", "t4"}, ids(desc))
}

func TestSortBy_AmountIsNumeric(t *testing.T) {
	rows := []model.Transaction{
		txn("nine", date(2024, 1, 1), model.TypeDebit, "9"),
		txn("hundred", date(2024, 1, 1), model.TypeDebit, "100"),
		txn("ten", date(2024, 1, 1), model.TypeDebit, "10"),
	}
	got := SortBy(rows, SortAmount, Ascending)
	assert.Equal(t, []string{"nine", "ten", "hundred"}, ids(got))
}

func TestSortBy_DateStableOnTies(t *testing.T) {
	rows := sampleRows()

	asc := SortBy(rows, SortDate, Ascending)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, ids(asc))

	desc := SortBy(rows, SortDate, Descending)
	assert.Equal(t, []string{"t4", "t5", "t3", "t2", "t1"}, ids(desc))
}

func TestSortBy_Lexicographic(t *testing.T) {
	got := SortBy(sampleRows(), SortDescription, Ascending)
	assert.Equal(t, []string{"t2", "t5", "t3", "t1", "t4"}, ids(got))

	got = SortBy(sampleRows(), SortCategory, Ascending)
	// Bills, Income, Transfer(t3), Transfer(t5), Transportation
	assert.Equal(t, []string{"t2", "t1", "t3", "t5", "t4"}, ids(got))
}

func TestSortBy_UnknownKeyKeepsOrder(t *testing.T) {
	got := SortBy(sampleRows(), "colour", Descending)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, ids(got))
}

func TestSortBy_DoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	_ = SortBy(rows, SortAmount, Descending)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5"}, ids(rows))
}

func TestGroupByDate(t *testing.T) {
	rows := sampleRows()
	rows = append(rows, txn("t6", date(2024, 1, 3), model.TypeCredit, "1"))

	groups := GroupByDate(rows)
	require.Len(t, groups, 4)

	assert.True(t, groups[0].Date.Equal(date(2024, 1, 7)))
	assert.Equal(t, []string{"t4", "t5"}, ids(groups[0].Transactions))
	assert.True(t, groups[1].Date.Equal(date(2024, 1, 5)))
	assert.True(t, groups[2].Date.Equal(date(2024, 1, 3)))
	assert.Equal(t, []string{"t2", "t6"}, ids(groups[2].Transactions))
	assert.True(t, groups[3].Date.Equal(date(2024, 1, 1)))
}

func TestGroupByDate_Empty(t *testing.T) {
	assert.Empty(t, GroupByDate(nil))
}
