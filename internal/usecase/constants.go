package usecase

import "time"

const (
	// DefaultReconcileConcurrency bounds the balance updates in flight during one pass.
	DefaultReconcileConcurrency = 8

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Outcomes reported to MetricsRecorder.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeError   = "error"
)
