package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/cashbook/internal/domain"
)

// EntryUseCase handles entry business logic. Every mutation is followed by a
// reconciliation pass before it returns.
type EntryUseCase struct {
	store      EntryStore
	reconciler *ReconciliationUseCase
	metrics    MetricsRecorder
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(store EntryStore, reconciler *ReconciliationUseCase, metrics MetricsRecorder) *EntryUseCase {
	return &EntryUseCase{
		store:      store,
		reconciler: reconciler,
		metrics:    metrics,
	}
}

// AddEntryInput represents raw form input for a new entry.
type AddEntryInput struct {
	Date        string
	Particulars string
	Type        string
	Comments    string
	Amount      string // free-form; normalized before storage
}

// UpdateEntryInput represents raw form input for an edit. Nil fields are unchanged.
type UpdateEntryInput struct {
	Date        *string
	Particulars *string
	Type        *string
	Comments    *string
	Amount      *string
}

// MutationResult is the outcome of a create or update.
type MutationResult struct {
	// Entry is the entry as it stands after reconciliation, or as returned by
	// the store when reconciliation did not complete.
	Entry          *domain.Entry
	Reconciliation *ReconciliationResult
}

// AddEntry validates input, inserts the entry and reconciles.
func (uc *EntryUseCase) AddEntry(ctx context.Context, input AddEntryInput) (*MutationResult, error) {
	entry, err := input.toNewEntry()
	if err != nil {
		uc.observe(domain.OpInsert, err)
		return nil, err
	}

	created, err := uc.store.Insert(ctx, entry)
	if err != nil {
		err = &domain.StoreError{Op: domain.OpInsert, Err: err}
		uc.observe(domain.OpInsert, err)
		return nil, err
	}
	uc.observe(domain.OpInsert, nil)

	return uc.afterMutation(ctx, created)
}

// UpdateEntry validates the present fields, updates the entry and reconciles.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id string, input UpdateEntryInput) (*MutationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "id is required"}
	}

	fields, err := input.toEntryFields()
	if err != nil {
		uc.observe(domain.OpUpdate, err)
		return nil, err
	}

	if err := uc.store.UpdateFields(ctx, id, fields); err != nil {
		err = &domain.StoreError{Op: domain.OpUpdate, ID: id, Err: err}
		uc.observe(domain.OpUpdate, err)
		return nil, err
	}
	uc.observe(domain.OpUpdate, nil)

	return uc.afterMutation(ctx, &domain.Entry{ID: id})
}

// DeleteEntry deletes an entry and reconciles.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string) (*ReconciliationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "id is required"}
	}

	if err := uc.store.Delete(ctx, id); err != nil {
		err = &domain.StoreError{Op: domain.OpDelete, ID: id, Err: err}
		uc.observe(domain.OpDelete, err)
		return nil, err
	}
	uc.observe(domain.OpDelete, nil)

	result, err := uc.reconciler.Reconcile(ctx)
	if err != nil {
		return result, fmt.Errorf("entry %s deleted: %w: %w", id, domain.ErrReconciliationIncomplete, err)
	}
	return result, nil
}

// Reload re-reads the full entry set and reconciles it.
func (uc *EntryUseCase) Reload(ctx context.Context) (*ReconciliationResult, error) {
	return uc.reconciler.Reconcile(ctx)
}

// Entries filters the reconciled view in memory. It never reconciles.
func (uc *EntryUseCase) Entries(filter domain.Filter) []domain.Entry {
	return filter.Apply(uc.reconciler.Snapshot())
}

// QueryEntries pushes filter down to the store and returns the matches in
// canonical order, carrying their persisted balances. It never reconciles.
func (uc *EntryUseCase) QueryEntries(ctx context.Context, filter domain.Filter) ([]domain.Entry, error) {
	entries, err := uc.store.List(ctx, filter)
	if err != nil {
		return nil, &domain.StoreError{Op: domain.OpList, Err: err}
	}
	domain.SortCanonical(entries)
	return entries, nil
}

// ReconciledAt returns when the current view was published; zero before the first pass.
func (uc *EntryUseCase) ReconciledAt() time.Time {
	return uc.reconciler.ReconciledAt()
}

// Summary totals the filtered view.
func (uc *EntryUseCase) Summary(filter domain.Filter) domain.Summary {
	return domain.Summarize(uc.Entries(filter))
}

func (uc *EntryUseCase) afterMutation(ctx context.Context, entry *domain.Entry) (*MutationResult, error) {
	result, err := uc.reconciler.Reconcile(ctx)
	out := &MutationResult{Entry: entry, Reconciliation: result}
	if err != nil {
		return out, fmt.Errorf("entry %s saved: %w: %w", entry.ID, domain.ErrReconciliationIncomplete, err)
	}

	if reconciled, ok := uc.reconciler.Lookup(entry.ID); ok {
		out.Entry = &reconciled
	}
	return out, nil
}

func (uc *EntryUseCase) observe(op string, err error) {
	if uc.metrics == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	uc.metrics.ObserveMutation(op, outcome)
}

func (in AddEntryInput) toNewEntry() (domain.NewEntry, error) {
	if strings.TrimSpace(in.Date) == "" {
		return domain.NewEntry{}, &domain.ValidationError{Field: "date", Reason: "date is required"}
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return domain.NewEntry{}, &domain.ValidationError{Field: "date", Reason: err.Error()}
	}

	typ := domain.EntryTypeCredit
	if strings.TrimSpace(in.Type) != "" {
		if typ, err = domain.ParseEntryType(in.Type); err != nil {
			return domain.NewEntry{}, err
		}
	}

	amount, err := domain.ParseAmount(in.Amount)
	if err != nil {
		return domain.NewEntry{}, err
	}

	entry := domain.NewEntry{
		Date:        date,
		Particulars: strings.TrimSpace(in.Particulars),
		Type:        typ,
		Comments:    in.Comments,
		Amount:      amount,
	}
	return entry, entry.Validate()
}

func (in UpdateEntryInput) toEntryFields() (domain.EntryFields, error) {
	var fields domain.EntryFields

	if in.Date != nil {
		date, err := domain.ParseDate(*in.Date)
		if err != nil {
			return fields, &domain.ValidationError{Field: "date", Reason: err.Error()}
		}
		fields.Date = &date
	}
	if in.Particulars != nil {
		particulars := strings.TrimSpace(*in.Particulars)
		fields.Particulars = &particulars
	}
	if in.Type != nil {
		typ, err := domain.ParseEntryType(*in.Type)
		if err != nil {
			return fields, err
		}
		fields.Type = &typ
	}
	if in.Comments != nil {
		comments := *in.Comments
		fields.Comments = &comments
	}
	if in.Amount != nil {
		amount, err := domain.ParseAmount(*in.Amount)
		if err != nil {
			return fields, err
		}
		fields.Amount = &amount
	}

	if fields.IsEmpty() {
		return fields, &domain.ValidationError{Field: "fields", Reason: "nothing to update"}
	}
	return fields, fields.Validate()
}
