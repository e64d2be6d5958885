package state

import "github.com/danielpatrickdp/biorail-gate/internal/scalar"

// #region ceilings

// Fixed biophysical ceilings.
const (
	RoHCeiling   = 0.30 // risk-of-harm, most constrained tier
	DecayCeiling = 1.0
)

// #endregion ceilings

// #region envelope

// Envelope holds the biophysical envelope of a unit under governance.
// RoH and Decay are not clamped: a predicted envelope may exceed its ceiling
// and the invariant checks must see that.
type Envelope struct {
	RoH          float64 `json:"roh"`
	Decay        float64 `json:"decay"`
	Lifeforce    float64 `json:"lifeforce"`
	LifeforceMin float64 `json:"lifeforce_min"`
	LifeforceMax float64 `json:"lifeforce_max"`
}

// #endregion envelope

// #region identity

// Identity is the 5-axis identity vector, each axis normalized to [0, 1].
// Trust is the only axis that lowers projected risk.
type Identity struct {
	BioLoad       float64 `json:"bio_load"`
	NeuroDistress float64 `json:"neuro_distress"`
	Lifeforce     float64 `json:"lifeforce"`
	ContextLoad   float64 `json:"context_load"`
	Trust         float64 `json:"trust"`
}

// #endregion identity

// #region territorial

// Territorial is one value per territorial scope.
type Territorial struct {
	Local scalar.Bounded `json:"local"`
	Room  scalar.Bounded `json:"room"`
	Grid  scalar.Bounded `json:"grid"`
}

// Scale multiplies every scope by f, re-clamping.
func (t Territorial) Scale(f float64) Territorial {
	return Territorial{
		Local: t.Local.Scale(f),
		Room:  t.Room.Scale(f),
		Grid:  t.Grid.Scale(f),
	}
}

// TerritorialView pairs measured loads with their ceilings.
type TerritorialView struct {
	Loads    Territorial `json:"loads"`
	Ceilings Territorial `json:"ceilings"`
}

// #endregion territorial

// #region ratio

// RatioPair must satisfy Numerator <= K * Denominator.
type RatioPair struct {
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	K           float64 `json:"k"`
}

// #endregion ratio

// #region stress

// StressMetrics are external fairness/load indicators. They only ever tighten limits.
type StressMetrics struct {
	HPCC float64 `json:"hpcc"` // habit-pollution coupling
	ERG  float64 `json:"erg"`  // exposure-responsibility gap
	TECR float64 `json:"tecr"` // token-enforced collapse rate
}

// StressLimits configures when stress tightens the corridor, and by how much.
type StressLimits struct {
	HPCCMax          float64 `json:"hpcc_max"`
	ERGMax           float64 `json:"erg_max"`
	TECRMax          float64 `json:"tecr_max"`
	TighteningFactor float64 `json:"tightening_factor"` // in [0, 1]
}

// #endregion stress

// #region diagnostic-flags

// DiagnosticFlags are informational only. DiagnosticOnly must be true: it asserts
// the caller is not actuating directly from a diagnostic path.
type DiagnosticFlags struct {
	Beast          bool `json:"beast"`
	Plague         bool `json:"plague"`
	UnfairDrain    bool `json:"unfair_drain"`
	DiagnosticOnly bool `json:"diagnostic_only"`
}

// #endregion diagnostic-flags

// #region snapshot

// Snapshot is the measured state of one site, built fresh per evaluation.
type Snapshot struct {
	SiteID       string          `json:"site_id"`
	Envelope     Envelope        `json:"envelope"`
	Identity     Identity        `json:"identity"`
	Territorial  TerritorialView `json:"territorial"`
	Ratio        RatioPair       `json:"ratio"`
	Stress       StressMetrics   `json:"stress"`
	StressLimits StressLimits    `json:"stress_limits"`
	Diagnostics  DiagnosticFlags `json:"diagnostics"`
}

// #endregion snapshot
