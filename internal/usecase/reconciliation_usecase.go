package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/cashbook/internal/domain"
)

// ReconciliationUseCase recomputes running balances, persists the stale ones
// and owns the in-memory view of the ledger.
//
// It is the only writer of Entry.Balance. Passes run one at a time; a pass
// that has started always runs to completion.
type ReconciliationUseCase struct {
	store       EntryStore
	logger      zerolog.Logger
	metrics     MetricsRecorder
	concurrency int

	passMu sync.Mutex
	view   atomic.Pointer[ledgerView]
}

// ledgerView is an immutable snapshot; it is replaced, never patched.
type ledgerView struct {
	entries      []domain.Entry
	reconciledAt time.Time
}

// ReconciliationOption configures a ReconciliationUseCase.
type ReconciliationOption func(*ReconciliationUseCase)

// WithLogger sets the logger used for pass summaries.
func WithLogger(logger zerolog.Logger) ReconciliationOption {
	return func(uc *ReconciliationUseCase) { uc.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) ReconciliationOption {
	return func(uc *ReconciliationUseCase) { uc.metrics = m }
}

// WithConcurrency bounds the balance updates in flight during one pass.
func WithConcurrency(n int) ReconciliationOption {
	return func(uc *ReconciliationUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(store EntryStore, opts ...ReconciliationOption) *ReconciliationUseCase {
	uc := &ReconciliationUseCase{
		store:       store,
		logger:      zerolog.Nop(),
		concurrency: DefaultReconcileConcurrency,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ReconciliationResult describes one reconciliation pass.
type ReconciliationResult struct {
	// Updated lists the ids whose balance was written.
	Updated []string
	// Failed lists the ids whose balance write failed; they stay stale until the next pass.
	Failed []string
	// Entries is the refreshed view after a clean pass, or the computed
	// (unpublished) entries after a partial one.
	Entries        []domain.Entry
	ClosingBalance decimal.Decimal
	CompletedAt    time.Time
}

// Reconcile runs one pass: read every entry, recompute balances, write the
// changed ones concurrently, wait for all writes to settle and, when they all
// succeeded, re-read the store and publish the result as the new view.
//
// Failed writes are not rolled back. The returned error then joins one
// *domain.StoreError per failed row and the previous view is kept.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context) (*ReconciliationResult, error) {
	uc.passMu.Lock()
	defer uc.passMu.Unlock()

	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	previous, err := uc.store.List(ctx, domain.Filter{})
	if err != nil {
		uc.observe(OutcomeError, 0, 0, start, decimal.Zero)
		return nil, &domain.StoreError{Op: domain.OpList, Err: err}
	}

	plan := domain.PlanReconciliation(previous)
	updated, failures := uc.persist(ctx, plan.ToPersist)

	result := &ReconciliationResult{
		Updated: updated,
		Entries: plan.Next,
	}

	if len(failures) > 0 {
		errs := make([]error, 0, len(failures))
		for _, f := range failures {
			result.Failed = append(result.Failed, f.ID)
			errs = append(errs, f)
			uc.logger.Warn().Err(f.Err).Str("entry_id", f.ID).Msg("balance update failed")
		}
		result.ClosingBalance = domain.ClosingBalance(plan.Next)
		result.CompletedAt = time.Now().UTC()
		uc.observe(OutcomePartial, len(updated), len(failures), start, result.ClosingBalance)
		uc.logger.Warn().
			Int("updated", len(updated)).
			Int("failed", len(failures)).
			Dur("duration", time.Since(start)).
			Msg("reconciliation incomplete")
		return result, errors.Join(errs...)
	}

	current := plan.Next
	if len(updated) > 0 {
		// The store is authoritative; re-read it rather than trusting plan.Next.
		current, err = uc.store.List(ctx, domain.Filter{})
		if err != nil {
			uc.observe(OutcomeError, len(updated), 0, start, decimal.Zero)
			return result, &domain.StoreError{Op: domain.OpList, Err: err}
		}
		domain.SortCanonical(current)
	} else {
		current = slices.Clone(previous)
		domain.SortCanonical(current)
	}

	result.Entries = current
	result.ClosingBalance = domain.ClosingBalance(current)
	result.CompletedAt = time.Now().UTC()
	uc.view.Store(&ledgerView{entries: current, reconciledAt: result.CompletedAt})

	uc.observe(OutcomeSuccess, len(updated), 0, start, result.ClosingBalance)
	uc.logger.Info().
		Int("entries", len(current)).
		Int("updated", len(updated)).
		Dur("duration", time.Since(start)).
		Msg("reconciliation completed")

	return result, nil
}

// persist dispatches one balance-only update per row and waits for all of them.
func (uc *ReconciliationUseCase) persist(ctx context.Context, updates []domain.BalanceUpdate) ([]string, []*domain.StoreError) {
	if len(updates) == 0 {
		return nil, nil
	}

	errs := make([]*domain.StoreError, len(updates))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, u := range updates {
		g.Go(func() error {
			balance := u.Balance
			if err := uc.store.UpdateFields(ctx, u.ID, domain.EntryFields{Balance: &balance}); err != nil {
				errs[i] = &domain.StoreError{Op: domain.OpUpdateBalance, ID: u.ID, Err: err}
			}
			return nil // every update settles independently
		})
	}
	_ = g.Wait()

	var (
		updated  []string
		failures []*domain.StoreError
	)
	for i, u := range updates {
		if errs[i] != nil {
			failures = append(failures, errs[i])
			continue
		}
		updated = append(updated, u.ID)
	}

	return updated, failures
}

func (uc *ReconciliationUseCase) observe(outcome string, updated, failed int, start time.Time, closing decimal.Decimal) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ObserveReconcile(outcome, updated, failed, time.Since(start), closing)
}

// Snapshot returns a copy of the last published view in canonical order.
// It is nil before the first successful pass.
func (uc *ReconciliationUseCase) Snapshot() []domain.Entry {
	v := uc.view.Load()
	if v == nil {
		return nil
	}
	return slices.Clone(v.entries)
}

// ReconciledAt returns when the current view was published.
func (uc *ReconciliationUseCase) ReconciledAt() time.Time {
	v := uc.view.Load()
	if v == nil {
		return time.Time{}
	}
	return v.reconciledAt
}

// Lookup returns the entry with id from the current view.
func (uc *ReconciliationUseCase) Lookup(id string) (domain.Entry, bool) {
	v := uc.view.Load()
	if v == nil {
		return domain.Entry{}, false
	}
	for _, e := range v.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Entry{}, false
}
