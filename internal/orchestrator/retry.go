package orchestrator

import (
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #region engine

// RetryEngine decides whether a Downscale verdict is re-evaluated, and with which change.
type RetryEngine struct {
	maxRetries int
	factor     float64
}

// NewRetryEngine creates a retry engine. maxRetries=2 means at most 3 attempts.
func NewRetryEngine(maxRetries int, factor float64) *RetryEngine {
	return &RetryEngine{maxRetries: maxRetries, factor: factor}
}

// #endregion

// #region should-retry

// ShouldRetry returns whether to retry and the reduced change to evaluate next.
// attempts contains all attempts so far (including the one just evaluated).
func (r *RetryEngine) ShouldRetry(attempts []Attempt) (bool, update.ProposedChange) {
	if len(attempts) == 0 {
		return false, update.ProposedChange{}
	}

	// Max retries reached
	if len(attempts) > r.maxRetries {
		return false, update.ProposedChange{}
	}

	// Only Downscale is re-evaluated; Block and ForceRepair are final.
	latest := attempts[len(attempts)-1]
	if latest.Decision.Verdict != gate.VerdictDownscale {
		return false, update.ProposedChange{}
	}

	next := latest.Change.Scale(r.factor)
	if next.IsZero() || next == latest.Change {
		return false, update.ProposedChange{}
	}
	return true, next
}

// #endregion
