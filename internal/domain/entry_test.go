package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseEntryType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  EntryType
	}{
		{"Credit", EntryTypeCredit},
		{"credit", EntryTypeCredit},
		{" DEBIT ", EntryTypeDebit},
	}

	for _, tt := range tests {
		got, err := ParseEntryType(tt.input)
		if err != nil {
			t.Fatalf("ParseEntryType(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseEntryType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if _, err := ParseEntryType("refund"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEntrySignedAmount(t *testing.T) {
	t.Parallel()

	credit := Entry{Type: EntryTypeCredit, Amount: decimal.NewFromInt(3)}
	debit := Entry{Type: EntryTypeDebit, Amount: decimal.NewFromInt(3)}

	if !credit.SignedAmount().Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected +3, got %s", credit.SignedAmount())
	}
	if !debit.SignedAmount().Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("expected -3, got %s", debit.SignedAmount())
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("unexpected string %q", d.String())
	}
	if d.Compare(NewDate(2024, time.February, 29)) != 0 {
		t.Fatalf("expected ParseDate and NewDate to agree")
	}
	if got := DateOf(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)); got.Compare(d) != 0 {
		t.Fatalf("DateOf dropped to %s", got)
	}
	if !d.Before(DateOf(d.Time().AddDate(0, 0, 1))) {
		t.Fatalf("expected Before to hold")
	}

	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if (Date{}).String() != "" || !(Date{}).IsZero() {
		t.Fatal("expected zero date to render empty")
	}
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Date Date `json:"date"`
	}

	raw, err := json.Marshal(payload{Date: NewDate(2024, time.March, 5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"date":"2024-03-05"}` {
		t.Fatalf("unexpected json %s", raw)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"date":"2023-12-31"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Date.Compare(NewDate(2023, time.December, 31)) != 0 {
		t.Fatalf("unexpected date %s", p.Date)
	}

	if err := json.Unmarshal([]byte(`{"date":"tomorrow"}`), &p); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	entries := ComputeBalances([]Entry{
		newTestEntry(t, "a", "2024-01-01", EntryTypeCredit, "10.00"),
		newTestEntry(t, "b", "2024-01-02", EntryTypeDebit, "5.00"),
		newTestEntry(t, "c", "2024-01-03", EntryTypeCredit, "3.50"),
	})

	s := Summarize(entries)

	if s.Count != 3 {
		t.Fatalf("expected 3 entries, got %d", s.Count)
	}
	if FormatAmount(s.TotalCredits) != "13.50" || FormatAmount(s.TotalDebits) != "5.00" {
		t.Fatalf("unexpected totals %s / %s", s.TotalCredits, s.TotalDebits)
	}
	if FormatAmount(s.Net) != "8.50" || FormatAmount(s.ClosingBalance) != "8.50" {
		t.Fatalf("unexpected net %s closing %s", s.Net, s.ClosingBalance)
	}
}
