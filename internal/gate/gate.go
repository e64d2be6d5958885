package gate

import (
	"fmt"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/invariant"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #region gate
// Gate evaluates whether a proposed state transition may proceed.
// It holds no mutable state and is safe for concurrent use.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) (*Gate, error) {
	if err := config.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("new gate: %w", err)
	}
	return &Gate{config: config}, nil
}

var defaultGate = &Gate{config: DefaultGateConfig()}

// EvaluateTransition runs the default gate and returns only the verdict.
func EvaluateTransition(snap state.Snapshot, base corridor.Corridor, change update.ProposedChange) Verdict {
	return defaultGate.Evaluate(snap, base, change).Verdict
}

// Evaluate runs the checks in strict order and short-circuits on the first failure.
// snap is taken by value and never modified.
func (g *Gate) Evaluate(snap state.Snapshot, base corridor.Corridor, change update.ProposedChange) GateDecision {
	snap = snap.Sanitized()

	// 1. Caller contract: the diagnostic-only flag must be set. Fail closed.
	if !snap.Diagnostics.DiagnosticOnly {
		return GateDecision{
			Verdict:  VerdictForceRepair,
			Reason:   "diagnostic contract: diagnostic_only flag unset",
			Failed:   []invariant.Check{{Name: "diagnostic_contract", Value: 0, Limit: 1, Pass: false}},
			Corridor: base,
			Ceilings: snap.Territorial.Ceilings,
		}
	}

	// 2. Tune corridor and ceilings from stress.
	tuned, ceilings := corridor.Tune(snap, base, snap.Territorial.Ceilings)

	// 3. Predict against the tuned ceilings.
	predicted := update.Predict(snap, change, ceilings)

	decision := GateDecision{
		CurrentRisk:   projection.ProjectWith(snap, g.config.Weights),
		PredictedRisk: projection.ProjectWith(predicted, g.config.Weights),
		Corridor:      tuned,
		Ceilings:      ceilings,
		Stressed:      corridor.Stressed(snap.Stress, snap.StressLimits),
	}

	// 4. Envelope ceilings.
	if r := invariant.Envelope(predicted.Envelope); !r.Passed {
		return decision.with(VerdictForceRepair, r.Reason, r.Failed())
	}

	// 5. Territorial ceilings.
	if r := invariant.Territorial(predicted.Territorial); !r.Passed {
		return decision.with(VerdictForceRepair, r.Reason, r.Failed())
	}

	// 6. Ratio constraint.
	if r := invariant.Ratio(predicted.Ratio); !r.Passed {
		return decision.with(VerdictBlock, r.Reason, r.Failed())
	}

	// 7-8. Corridor membership of the predicted risk.
	if tuned.Contains(decision.PredictedRisk) {
		return decision.with(VerdictAllow,
			fmt.Sprintf("predicted risk %s inside corridor %s", decision.PredictedRisk, tuned), nil)
	}

	// 9. Outside the corridor: worsening needs repair, flat or improving is throttled.
	if decision.CurrentRisk.Less(decision.PredictedRisk) {
		return decision.with(VerdictForceRepair,
			fmt.Sprintf("predicted risk %s outside corridor %s and rising from %s",
				decision.PredictedRisk, tuned, decision.CurrentRisk), nil)
	}
	return decision.with(VerdictDownscale,
		fmt.Sprintf("predicted risk %s outside corridor %s, not rising from %s",
			decision.PredictedRisk, tuned, decision.CurrentRisk), nil)
}

// #endregion gate

// #region helpers
func (d GateDecision) with(v Verdict, reason string, failed []invariant.Check) GateDecision {
	d.Verdict = v
	d.Reason = reason
	d.Failed = failed
	return d
}

// #endregion helpers
