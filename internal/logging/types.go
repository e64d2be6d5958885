package logging

import (
	"time"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/invariant"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #region gate-record
// GateRecord captures the complete scalar gate evaluation for one attempt.
// Serialized as JSON by an external audit collaborator for deterministic replay.
type GateRecord struct {
	EvaluationID string        `json:"evaluation_id"`
	SiteID       string        `json:"site_id"`
	Zone         corridor.Zone `json:"zone"`
	Attempt      int           `json:"attempt"`

	// Exact inputs as evaluated at runtime
	Snapshot state.Snapshot        `json:"snapshot"`
	Change   update.ProposedChange `json:"change"`

	// Thresholds active at decision time
	Thresholds GateRecordThresholds `json:"thresholds"`

	// Gate output
	Verdict       gate.Verdict      `json:"verdict"`
	Reason        string            `json:"reason"`
	CurrentRisk   float64           `json:"current_risk"`
	PredictedRisk float64           `json:"predicted_risk"`
	Failed        []invariant.Check `json:"failed,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// GateRecordThresholds captures the baseline and tuned limits active at decision time.
type GateRecordThresholds struct {
	BaselineMin float64            `json:"baseline_min"`
	BaselineMax float64            `json:"baseline_max"`
	TunedMin    float64            `json:"tuned_min"`
	TunedMax    float64            `json:"tuned_max"`
	Ceilings    state.Territorial  `json:"ceilings"` // tuned
	Stressed    bool               `json:"stressed"`
	Weights     projection.Weights `json:"weights"`
}

// #endregion gate-record

// #region reversal-record
// ReversalRecord captures one capability guard evaluation.
type ReversalRecord struct {
	EvaluationID string           `json:"evaluation_id"`
	Context      reversal.Context `json:"context"`
	Allowed      bool             `json:"allowed"`
	Reason       string           `json:"reason,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// #endregion reversal-record
