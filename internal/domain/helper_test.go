package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func newTestEntry(t *testing.T, id, date string, typ EntryType, amount string) Entry {
	t.Helper()
	return Entry{
		ID:          id,
		Date:        mustDate(t, date),
		Particulars: "entry " + id,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
	}
}

func withBalance(e Entry, balance string) Entry {
	e.Balance = decimal.NewNullDecimal(decimal.RequireFromString(balance))
	return e
}

func balancesOf(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if !e.Balance.Valid {
			out[i] = "null"
			continue
		}
		out[i] = FormatAmount(e.Balance.Decimal)
	}
	return out
}

func idsOf(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
