package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// CompareCanonical orders entries by date ascending, then by id ascending.
// IDs compare as strings; store-assigned ULIDs sort in creation order.
func CompareCanonical(a, b Entry) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortCanonical sorts entries in place into canonical order.
func SortCanonical(entries []Entry) {
	slices.SortFunc(entries, CompareCanonical)
}

// ComputeBalances returns a copy of entries in canonical order, each carrying
// the running balance of signed amounts up to and including itself.
// The input slice is not modified.
func ComputeBalances(entries []Entry) []Entry {
	out := slices.Clone(entries)
	SortCanonical(out)

	running := decimal.Zero
	for i := range out {
		running = running.Add(out[i].SignedAmount())
		out[i].Balance = decimal.NewNullDecimal(running)
	}

	return out
}

// ClosingBalance returns the balance of the last entry, or zero when there is
// none or it has not been computed yet.
func ClosingBalance(entries []Entry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	last := entries[len(entries)-1].Balance
	if !last.Valid {
		return decimal.Zero
	}
	return last.Decimal
}
