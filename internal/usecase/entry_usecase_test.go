package usecase_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
	"github.com/iho/cashbook/internal/usecase/mocks"
)

func newEntryUseCase(store usecase.EntryStore) (*usecase.EntryUseCase, *usecase.ReconciliationUseCase) {
	reconciler := usecase.NewReconciliationUseCase(store)
	return usecase.NewEntryUseCase(store, reconciler, nil), reconciler
}

func strPtr(s string) *string { return &s }

func addEntries(t *testing.T, uc *usecase.EntryUseCase, inputs ...usecase.AddEntryInput) []string {
	t.Helper()
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		res, err := uc.AddEntry(context.Background(), in)
		if err != nil {
			t.Fatalf("add %+v: %v", in, err)
		}
		ids = append(ids, res.Entry.ID)
	}
	return ids
}

func TestEntryUseCase_AddEntryReconcilesView(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)

	addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "Salary", Type: "credit", Amount: "10"},
		usecase.AddEntryInput{Date: "2024-01-02", Particulars: "Groceries", Type: "debit", Amount: "5"},
	)

	res, err := uc.AddEntry(context.Background(), usecase.AddEntryInput{
		Date:        "2024-01-03",
		Particulars: "Refund",
		Type:        "credit",
		Amount:      "$3.50",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Entry.Balance.Valid || !res.Entry.Balance.Decimal.Equal(decimal.RequireFromString("8.50")) {
		t.Fatalf("expected returned entry to carry balance 8.50, got %+v", res.Entry.Balance)
	}
	if res.Reconciliation == nil || len(res.Reconciliation.Updated) != 1 {
		t.Fatalf("expected one balance write for the appended entry, got %+v", res.Reconciliation)
	}

	assertStrings(t, "view balances", balances(uc.Entries(domain.Filter{})), []string{"10.00", "5.00", "8.50"})
}

func TestEntryUseCase_AddEntryDefaultsToCredit(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)

	res, err := uc.AddEntry(context.Background(), usecase.AddEntryInput{
		Date:        "2024-02-01",
		Particulars: "Opening",
		Amount:      "1,000.999",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entry.Type != domain.EntryTypeCredit {
		t.Errorf("expected credit, got %s", res.Entry.Type)
	}
	if domain.FormatAmount(res.Entry.Amount) != "1000.99" {
		t.Errorf("expected normalized amount 1000.99, got %s", res.Entry.Amount)
	}
}

func TestEntryUseCase_AddEntryValidationMakesNoStoreCall(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.AddEntryInput
		field string
	}{
		{"missing date", usecase.AddEntryInput{Particulars: "x", Amount: "1"}, "date"},
		{"bad date", usecase.AddEntryInput{Date: "01/02/2024", Particulars: "x", Amount: "1"}, "date"},
		{"missing particulars", usecase.AddEntryInput{Date: "2024-01-01", Particulars: "  ", Amount: "1"}, "particulars"},
		{"bad type", usecase.AddEntryInput{Date: "2024-01-01", Particulars: "x", Type: "transfer", Amount: "1"}, "type"},
		{"amount without digits", usecase.AddEntryInput{Date: "2024-01-01", Particulars: "x", Amount: "abc"}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockEntryStore(ctrl) // strict: any call fails
			uc, _ := newEntryUseCase(store)

			_, err := uc.AddEntry(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestEntryUseCase_InsertFailureIsStoreError(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	cause := errors.New("disk full")
	store.InsertFunc = func(context.Context, domain.NewEntry) (*domain.Entry, error) {
		return nil, cause
	}
	uc, reconciler := newEntryUseCase(store)

	_, err := uc.AddEntry(context.Background(), usecase.AddEntryInput{Date: "2024-01-01", Particulars: "x", Amount: "1"})

	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != domain.OpInsert || !errors.Is(err, cause) {
		t.Fatalf("expected insert StoreError, got %v", err)
	}
	if reconciler.Snapshot() != nil {
		t.Fatal("expected no reconciliation after a failed insert")
	}
}

func TestEntryUseCase_UpdateAmountRewritesLaterBalances(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)

	ids := addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Type: "credit", Amount: "10"},
		usecase.AddEntryInput{Date: "2024-01-02", Particulars: "b", Type: "debit", Amount: "5"},
		usecase.AddEntryInput{Date: "2024-01-03", Particulars: "c", Type: "credit", Amount: "3.50"},
	)
	store.ResetCalls()

	res, err := uc.UpdateEntry(context.Background(), ids[1], usecase.UpdateEntryInput{Amount: strPtr("50")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSameSet(t, "store writes", store.BalanceUpdates(), []string{ids[1], ids[2]})
	if !res.Entry.Balance.Decimal.Equal(decimal.NewFromInt(-40)) {
		t.Errorf("expected balance -40 for updated entry, got %s", res.Entry.Balance.Decimal)
	}
	assertStrings(t, "view balances", balances(uc.Entries(domain.Filter{})), []string{"10.00", "-40.00", "-36.50"})
}

func TestEntryUseCase_UpdateDateReordersView(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)

	ids := addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Type: "credit", Amount: "10"},
		usecase.AddEntryInput{Date: "2024-01-05", Particulars: "b", Type: "debit", Amount: "4"},
	)

	if _, err := uc.UpdateEntry(context.Background(), ids[1], usecase.UpdateEntryInput{Date: strPtr("2023-12-31")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view := uc.Entries(domain.Filter{})
	if view[0].ID != ids[1] {
		t.Fatalf("expected moved entry first, got %s", view[0].ID)
	}
	assertStrings(t, "view balances", balances(view), []string{"-4.00", "6.00"})
}

func TestEntryUseCase_UpdateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockEntryStore(ctrl)
	uc, _ := newEntryUseCase(store)

	_, err := uc.UpdateEntry(context.Background(), "e1", usecase.UpdateEntryInput{})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "fields" {
		t.Fatalf("expected empty update to be rejected, got %v", err)
	}

	_, err = uc.UpdateEntry(context.Background(), " ", usecase.UpdateEntryInput{Amount: strPtr("1")})
	if !errors.As(err, &vErr) || vErr.Field != "id" {
		t.Fatalf("expected missing id to be rejected, got %v", err)
	}

	_, err = uc.UpdateEntry(context.Background(), "e1", usecase.UpdateEntryInput{Type: strPtr("refund")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected bad type to be rejected, got %v", err)
	}
}

func TestEntryUseCase_UpdateUnknownEntry(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)

	_, err := uc.UpdateEntry(context.Background(), "missing", usecase.UpdateEntryInput{Particulars: strPtr("x")})

	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != domain.OpUpdate || storeErr.ID != "missing" {
		t.Fatalf("expected update StoreError, got %v", err)
	}
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryUseCase_DeleteShiftsLaterBalances(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)

	ids := addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Type: "credit", Amount: "10"},
		usecase.AddEntryInput{Date: "2024-01-02", Particulars: "b", Type: "debit", Amount: "5"},
		usecase.AddEntryInput{Date: "2024-01-03", Particulars: "c", Type: "credit", Amount: "3.50"},
	)
	store.ResetCalls()

	res, err := uc.DeleteEntry(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSameSet(t, "updated", res.Updated, []string{ids[1], ids[2]})
	view := uc.Entries(domain.Filter{})
	assertStrings(t, "view balances", balances(view), []string{"-5.00", "-1.50"})
	if _, ok := store.Get(ids[0]); ok {
		t.Fatal("expected entry to be removed from the store")
	}
}

func TestEntryUseCase_DeleteWithIncompleteReconciliation(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)
	ids := addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Amount: "10"},
		usecase.AddEntryInput{Date: "2024-01-02", Particulars: "b", Amount: "5"},
	)

	cause := errors.New("timeout")
	store.UpdateFieldsFunc = func(context.Context, string, domain.EntryFields) error { return cause }

	res, err := uc.DeleteEntry(context.Background(), ids[0])
	if !errors.Is(err, cause) || !errors.Is(err, domain.ErrReconciliationIncomplete) {
		t.Fatalf("expected incomplete reconciliation, got %v", err)
	}
	if res == nil || len(res.Failed) != 1 || res.Failed[0] != ids[1] {
		t.Fatalf("expected %s to be reported failed, got %+v", ids[1], res)
	}
	if _, ok := store.Get(ids[0]); ok {
		t.Fatal("expected the delete itself to stand")
	}
}

func TestEntryUseCase_FilteringNeverReconciles(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)
	addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "Salary January", Type: "credit", Amount: "100"},
		usecase.AddEntryInput{Date: "2024-01-10", Particulars: "Rent", Type: "debit", Amount: "40"},
		usecase.AddEntryInput{Date: "2024-02-01", Particulars: "Salary February", Type: "credit", Amount: "100"},
	)
	store.ResetCalls()

	filtered := uc.Entries(domain.Filter{ParticularsContains: "salary"})
	assertStrings(t, "filtered balances", balances(filtered), []string{"100.00", "160.00"})

	if calls := store.Calls(); len(calls) != 0 {
		t.Fatalf("expected filtering to stay in memory, got %v", calls)
	}

	// the filtered subset keeps the balances computed over the full set
	full := uc.Entries(domain.Filter{})
	assertStrings(t, "full balances", balances(full), []string{"100.00", "60.00", "160.00"})
}

func TestEntryUseCase_QueryEntriesMatchesInMemoryFilter(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)
	addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-03", Particulars: "c", Type: "credit", Amount: "3"},
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Type: "debit", Amount: "1"},
		usecase.AddEntryInput{Date: "2024-01-02", Particulars: "b", Type: "debit", Amount: "2"},
	)

	from, _ := domain.ParseDate("2024-01-02")
	filter := domain.Filter{DateFrom: from, Type: domain.EntryTypeDebit}

	queried, err := uc.QueryEntries(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inMemory := uc.Entries(filter)

	if !slices.EqualFunc(queried, inMemory, func(a, b domain.Entry) bool {
		return a.ID == b.ID && a.Balance.Valid == b.Balance.Valid && a.Balance.Decimal.Equal(b.Balance.Decimal)
	}) {
		t.Fatalf("expected store query %v to match in-memory filter %v", queried, inMemory)
	}
}

func TestEntryUseCase_Summary(t *testing.T) {
	t.Parallel()

	store := mocks.NewFakeEntryStore()
	uc, _ := newEntryUseCase(store)
	addEntries(t, uc,
		usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Type: "credit", Amount: "10"},
		usecase.AddEntryInput{Date: "2024-01-02", Particulars: "b", Type: "debit", Amount: "5"},
		usecase.AddEntryInput{Date: "2024-01-03", Particulars: "c", Type: "credit", Amount: "3.50"},
	)

	s := uc.Summary(domain.Filter{})
	if s.Count != 3 {
		t.Errorf("expected 3 entries, got %d", s.Count)
	}
	if !s.TotalCredits.Equal(decimal.RequireFromString("13.5")) || !s.TotalDebits.Equal(decimal.NewFromInt(5)) {
		t.Errorf("unexpected totals: %+v", s)
	}
	if !s.ClosingBalance.Equal(decimal.RequireFromString("8.5")) {
		t.Errorf("expected closing balance 8.5, got %s", s.ClosingBalance)
	}
}

func TestEntryUseCase_RecordsMutationMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().ObserveMutation(domain.OpInsert, usecase.OutcomeSuccess)
	metrics.EXPECT().ObserveMutation(domain.OpUpdate, usecase.OutcomeError)

	store := mocks.NewFakeEntryStore()
	uc := usecase.NewEntryUseCase(store, usecase.NewReconciliationUseCase(store), metrics)

	if _, err := uc.AddEntry(context.Background(), usecase.AddEntryInput{Date: "2024-01-01", Particulars: "a", Amount: "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.UpdateEntry(context.Background(), "missing", usecase.UpdateEntryInput{Amount: strPtr("2")}); err == nil {
		t.Fatal("expected update of missing entry to fail")
	}
}
