package gate

import (
	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/invariant"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #region verdict
// Verdict is the terminal outcome of a scalar gate evaluation.
type Verdict string

const (
	VerdictAllow       Verdict = "allow"
	VerdictDownscale   Verdict = "downscale"
	VerdictBlock       Verdict = "block"
	VerdictForceRepair Verdict = "force_repair"
)

// Verdicts lists every verdict, least severe first.
var Verdicts = []Verdict{VerdictAllow, VerdictDownscale, VerdictBlock, VerdictForceRepair}

// Severity ranks the verdict; higher is more restrictive. Unknown verdicts rank highest.
func (v Verdict) Severity() int {
	for i, known := range Verdicts {
		if v == known {
			return i
		}
	}
	return len(Verdicts)
}

// #endregion verdict

// #region gate-config
// GateConfig holds the projection weights used by the gate.
type GateConfig struct {
	Weights projection.Weights
}

// DefaultGateConfig returns the production configuration.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Weights: projection.DefaultWeights(),
	}
}

// #endregion gate-config

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Verdict Verdict
	Reason  string
	Failed  []invariant.Check // non-empty for ForceRepair/Block from a ceiling

	CurrentRisk   scalar.Bounded
	PredictedRisk scalar.Bounded

	Corridor corridor.Corridor // effective (tuned) corridor
	Ceilings state.Territorial // effective (tuned) ceilings
	Stressed bool
}

// #endregion gate-decision
