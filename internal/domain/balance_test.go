package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBalances_RunningSum(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		newTestEntry(t, "a", "2024-01-01", EntryTypeCredit, "10.00"),
		newTestEntry(t, "b", "2024-01-02", EntryTypeDebit, "5.00"),
		newTestEntry(t, "c", "2024-01-03", EntryTypeCredit, "3.50"),
	}

	got := ComputeBalances(entries)

	assert.Equal(t, []string{"a", "b", "c"}, idsOf(got))
	assert.Equal(t, []string{"10.00", "5.00", "8.50"}, balancesOf(got))
}

func TestComputeBalances_CanonicalOrder(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		newTestEntry(t, "03", "2024-02-01", EntryTypeCredit, "1"),
		newTestEntry(t, "02", "2024-01-15", EntryTypeDebit, "2"),
		newTestEntry(t, "01", "2024-02-01", EntryTypeCredit, "4"),
		newTestEntry(t, "00", "2024-03-01", EntryTypeCredit, "8"),
	}

	got := ComputeBalances(entries)

	// earlier date first; equal dates by id
	assert.Equal(t, []string{"02", "01", "03", "00"}, idsOf(got))
	assert.Equal(t, []string{"-2.00", "2.00", "3.00", "11.00"}, balancesOf(got))
}

func TestComputeBalances_InputOrderIndependent(t *testing.T) {
	t.Parallel()

	base := []Entry{
		newTestEntry(t, "a", "2024-01-01", EntryTypeCredit, "100.10"),
		newTestEntry(t, "b", "2024-01-01", EntryTypeDebit, "0.10"),
		newTestEntry(t, "c", "2023-12-31", EntryTypeCredit, "7.77"),
		newTestEntry(t, "d", "2024-01-05", EntryTypeDebit, "50"),
	}
	want := balancesOf(ComputeBalances(base))

	permutations := [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, p := range permutations {
		shuffled := make([]Entry, len(base))
		for i, j := range p {
			shuffled[i] = base[j]
		}
		got := ComputeBalances(shuffled)
		assert.Equal(t, []string{"c", "a", "b", "d"}, idsOf(got))
		assert.Equal(t, want, balancesOf(got))
	}
}

func TestComputeBalances_Idempotent(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		withBalance(newTestEntry(t, "x", "2024-05-01", EntryTypeDebit, "12.34"), "999"),
		newTestEntry(t, "y", "2024-04-01", EntryTypeCredit, "20"),
	}

	once := ComputeBalances(entries)
	twice := ComputeBalances(once)

	assert.Equal(t, balancesOf(once), balancesOf(twice))
	assert.Equal(t, idsOf(once), idsOf(twice))
}

func TestComputeBalances_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		newTestEntry(t, "b", "2024-01-02", EntryTypeCredit, "1"),
		newTestEntry(t, "a", "2024-01-01", EntryTypeCredit, "1"),
	}

	_ = ComputeBalances(entries)

	assert.Equal(t, []string{"b", "a"}, idsOf(entries))
	assert.Equal(t, []string{"null", "null"}, balancesOf(entries))
}

func TestComputeBalances_ExactDecimalArithmetic(t *testing.T) {
	t.Parallel()

	entries := make([]Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, newTestEntry(t, string(rune('a'+i)), "2024-01-01", EntryTypeCredit, "0.10"))
	}

	got := ComputeBalances(entries)

	require.Len(t, got, 10)
	last := got[len(got)-1].Balance
	require.True(t, last.Valid)
	assert.True(t, last.Decimal.Equal(decimal.RequireFromString("1.00")), "got %s", last.Decimal)
}

func TestComputeBalances_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ComputeBalances(nil))
	assert.True(t, ClosingBalance(nil).IsZero())
}

func TestComputeBalances_DeletionShiftsLaterBalances(t *testing.T) {
	t.Parallel()

	a := newTestEntry(t, "a", "2024-01-01", EntryTypeCredit, "10")
	b := newTestEntry(t, "b", "2024-01-02", EntryTypeDebit, "4")
	c := newTestEntry(t, "c", "2024-01-03", EntryTypeCredit, "1")

	before := ComputeBalances([]Entry{a, b, c})
	assert.Equal(t, []string{"10.00", "6.00", "7.00"}, balancesOf(before))

	after := ComputeBalances([]Entry{a, c})
	assert.Equal(t, []string{"a", "c"}, idsOf(after))
	assert.Equal(t, []string{"10.00", "11.00"}, balancesOf(after))
}

func TestClosingBalance(t *testing.T) {
	t.Parallel()

	entries := ComputeBalances([]Entry{
		newTestEntry(t, "a", "2024-01-01", EntryTypeCredit, "10"),
		newTestEntry(t, "b", "2024-01-02", EntryTypeDebit, "15.50"),
	})

	assert.Equal(t, "-5.50", FormatAmount(ClosingBalance(entries)))
	assert.True(t, ClosingBalance([]Entry{newTestEntry(t, "z", "2024-01-01", EntryTypeCredit, "1")}).IsZero())
}
