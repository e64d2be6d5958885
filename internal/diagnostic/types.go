package diagnostic

import "github.com/danielpatrickdp/biorail-gate/internal/reversal"

// #region predicate

// Predicate is a micro-society condition computed upstream from multi-subject histories.
type Predicate string

const (
	PredicateCalmStable       Predicate = "calm_stable"
	PredicateOverloaded       Predicate = "overloaded"
	PredicateUnfairDrain      Predicate = "unfair_drain"
	PredicateRecovery         Predicate = "recovery"
	PredicateBoundarySkimming Predicate = "boundary_skimming"
)

// #endregion predicate

// #region input

// Assets are the tree-of-life scalars the observer reads, each nominally in [0, 1].
type Assets struct {
	Decay     float64 `json:"decay"`
	Lifeforce float64 `json:"lifeforce"`
	Power     float64 `json:"power"`
	Fear      float64 `json:"fear"`
	Pain      float64 `json:"pain"`
}

// Input is one per-epoch diagnostic view.
type Input struct {
	Capability reversal.CapabilityState `json:"capability"`
	RoH        float64                  `json:"roh"`
	Assets     Assets                   `json:"assets"`
	Predicates []Predicate              `json:"predicates"`

	// Optional indices for lining labels up with an external audit log.
	EvolveIndex *uint64 `json:"evolve_index,omitempty"`
	EpochIndex  *uint64 `json:"epoch_index,omitempty"`
}

// #endregion input

// #region config

// Config holds thresholds for advisory labels only.
type Config struct {
	DecayBoundary  float64 `json:"decay_boundary" yaml:"decay_boundary" validate:"gte=0,lte=1"`
	LifeforceFloor float64 `json:"lifeforce_floor" yaml:"lifeforce_floor" validate:"gte=0,lte=1"`
	PowerUnfair    float64 `json:"power_unfair" yaml:"power_unfair" validate:"gte=0,lte=1"`
	FearOverload   float64 `json:"fear_overload" yaml:"fear_overload" validate:"gte=0,lte=1"`
	PainOverload   float64 `json:"pain_overload" yaml:"pain_overload" validate:"gte=0,lte=1"`
}

// DefaultConfig returns conservative thresholds.
func DefaultConfig() Config {
	return Config{
		DecayBoundary:  0.70,
		LifeforceFloor: 0.50,
		PowerUnfair:    0.70,
		FearOverload:   0.60,
		PainOverload:   0.60,
	}
}

// #endregion config

// #region labels

// Dimension is how many asset axes a label considers.
type Dimension string

const (
	D1 Dimension = "1d"
	D3 Dimension = "3d"
	D5 Dimension = "5d"
)

// Label is a fairness/safety category. Labels carry no policy semantics.
type Label string

const (
	LabelD1Fair                     Label = "d1_fair"
	LabelD1UnfairDrainRisk          Label = "d1_unfair_drain_risk"
	LabelD3Fair                     Label = "d3_fair"
	LabelD3UnfairDrainRisk          Label = "d3_unfair_drain_risk"
	LabelD3OverloadRisk             Label = "d3_overload_risk"
	LabelD5CalmStable               Label = "d5_calm_stable"
	LabelD5BoundarySkimming         Label = "d5_boundary_skimming"
	LabelD5UnfairDrainConfirmed     Label = "d5_unfair_drain_confirmed"
	LabelD5OverloadedRecoveryWindow Label = "d5_overloaded_recovery_window"
)

// Provenance links a label back to the fields that produced it.
type Provenance struct {
	Dimension   Dimension `json:"dimension"`
	Explanation string    `json:"explanation"`
	Sources     []string  `json:"sources"`
}

// Diagnostic is one label with its provenance.
type Diagnostic struct {
	Label      Label      `json:"label"`
	Provenance Provenance `json:"provenance"`
}

// View is the aggregate output for one epoch, ready for logging.
type View struct {
	Capability  reversal.CapabilityState `json:"capability"`
	RoH         float64                  `json:"roh"`
	EvolveIndex *uint64                  `json:"evolve_index,omitempty"`
	EpochIndex  *uint64                  `json:"epoch_index,omitempty"`
	Diagnostics []Diagnostic             `json:"diagnostics"`
}

// #endregion labels
