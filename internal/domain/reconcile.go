package domain

import "github.com/shopspring/decimal"

// ReconciliationPlan is the outcome of comparing computed balances with the
// balances last persisted.
type ReconciliationPlan struct {
	// ToPersist holds one update per entry whose balance changed, in canonical order.
	ToPersist []BalanceUpdate
	// Next is the recomputed entry list in canonical order.
	Next []Entry
}

// PlanReconciliation recomputes balances over previous and selects the
// entries whose persisted balance is stale. Entries are matched by id.
// A missing persisted balance always counts as stale; numerically equal
// balances (5.0 and 5.00) do not.
func PlanReconciliation(previous []Entry) ReconciliationPlan {
	persisted := make(map[string]decimal.NullDecimal, len(previous))
	for _, e := range previous {
		persisted[e.ID] = e.Balance
	}

	next := ComputeBalances(previous)

	var updates []BalanceUpdate
	for _, e := range next {
		old := persisted[e.ID]
		if old.Valid && old.Decimal.Equal(e.Balance.Decimal) {
			continue
		}
		updates = append(updates, BalanceUpdate{ID: e.ID, Balance: e.Balance.Decimal})
	}

	return ReconciliationPlan{ToPersist: updates, Next: next}
}
