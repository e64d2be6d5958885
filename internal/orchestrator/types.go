package orchestrator

// #region imports
import (
	"context"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/logging"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #endregion

// #region collaborators

// CorridorProvider supplies the baseline corridor for each evaluation.
// config.Watcher implements it for hot-reloaded files.
type CorridorProvider interface {
	BaselineCorridor() corridor.Corridor
}

// CorridorFunc adapts a function to CorridorProvider.
type CorridorFunc func() corridor.Corridor

// BaselineCorridor calls f.
func (f CorridorFunc) BaselineCorridor() corridor.Corridor { return f() }

// StaticCorridor always returns c.
func StaticCorridor(c corridor.Corridor) CorridorProvider {
	return CorridorFunc(func() corridor.Corridor { return c })
}

// Recorder is the hand-off to an external audit collaborator.
type Recorder interface {
	RecordGate(ctx context.Context, rec logging.GateRecord) error
	RecordReversal(ctx context.Context, rec logging.ReversalRecord) error
}

// #endregion

// #region transition

// TransitionRequest is one proposed change for one site.
type TransitionRequest struct {
	Snapshot state.Snapshot
	Change   update.ProposedChange
}

// Attempt is one gate evaluation of a (possibly scaled) change.
type Attempt struct {
	Change   update.ProposedChange
	Decision gate.GateDecision
}

// TransitionResult is the outcome after downscale re-evaluation.
type TransitionResult struct {
	EvaluationID string
	Verdict      gate.Verdict          // verdict of the last attempt
	Accepted     bool                  // true only when the last attempt was Allow
	Change       update.ProposedChange // change evaluated by the last attempt
	Attempts     []Attempt
}

// #endregion

// #region reversal

// ReversalResult is one capability guard decision.
type ReversalResult struct {
	EvaluationID string
	Decision     reversal.Decision
}

// #endregion
