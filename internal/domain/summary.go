package domain

import "github.com/shopspring/decimal"

// Summary totals a list of entries.
type Summary struct {
	Count          int
	TotalCredits   decimal.Decimal
	TotalDebits    decimal.Decimal
	Net            decimal.Decimal
	ClosingBalance decimal.Decimal // balance of the last entry in the list
}

// Summarize totals entries, which are expected in canonical order.
func Summarize(entries []Entry) Summary {
	s := Summary{
		Count:        len(entries),
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
	}

	for _, e := range entries {
		if e.Type == EntryTypeDebit {
			s.TotalDebits = s.TotalDebits.Add(e.Amount)
		} else {
			s.TotalCredits = s.TotalCredits.Add(e.Amount)
		}
	}

	s.Net = s.TotalCredits.Sub(s.TotalDebits)
	s.ClosingBalance = ClosingBalance(entries)

	return s
}
