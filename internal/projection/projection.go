package projection

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// ErrInvalidWeights is returned by Weights.Validate.
var ErrInvalidWeights = errors.New("invalid projection weights")

// weightTolerance absorbs float noise when checking the risk weights sum.
const weightTolerance = 1e-9

// #region weights

// Weights are the fixed coefficients of the risk projection.
// The six risk weights sum to 1; TrustRelief may not exceed that sum.
type Weights struct {
	BioLoad          float64 `json:"bio_load" yaml:"bio_load"`
	NeuroDistress    float64 `json:"neuro_distress" yaml:"neuro_distress"`
	ContextLoad      float64 `json:"context_load" yaml:"context_load"`
	RoH              float64 `json:"roh" yaml:"roh"`
	Decay            float64 `json:"decay" yaml:"decay"`
	LifeforceDeficit float64 `json:"lifeforce_deficit" yaml:"lifeforce_deficit"`
	TrustRelief      float64 `json:"trust_relief" yaml:"trust_relief"`
}

// DefaultWeights returns the production coefficients.
func DefaultWeights() Weights {
	return Weights{
		BioLoad:          0.18,
		NeuroDistress:    0.18,
		ContextLoad:      0.18,
		RoH:              0.18,
		Decay:            0.18,
		LifeforceDeficit: 0.10,
		TrustRelief:      0.40,
	}
}

// RiskSum returns the total of the six risk weights.
func (w Weights) RiskSum() float64 {
	return w.BioLoad + w.NeuroDistress + w.ContextLoad + w.RoH + w.Decay + w.LifeforceDeficit
}

// Validate checks the weights keep the projection monotone and bounded.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"bio_load":          w.BioLoad,
		"neuro_distress":    w.NeuroDistress,
		"context_load":      w.ContextLoad,
		"roh":               w.RoH,
		"decay":             w.Decay,
		"lifeforce_deficit": w.LifeforceDeficit,
		"trust_relief":      w.TrustRelief,
	} {
		if !(v >= 0) {
			return fmt.Errorf("%w: %s = %v is negative", ErrInvalidWeights, name, v)
		}
	}
	sum := w.RiskSum()
	if sum < 1-weightTolerance || sum > 1+weightTolerance {
		return fmt.Errorf("%w: risk weights sum to %.6f, want 1", ErrInvalidWeights, sum)
	}
	if w.TrustRelief > sum+weightTolerance {
		return fmt.Errorf("%w: trust relief %.4f exceeds risk sum %.4f", ErrInvalidWeights, w.TrustRelief, sum)
	}
	return nil
}

// #endregion weights

// #region project

// Project computes the risk scalar of s with DefaultWeights.
func Project(s state.Snapshot) scalar.Bounded {
	return ProjectWith(s, DefaultWeights())
}

// ProjectWith computes the risk scalar of s.
// Raising any risk input never lowers the result; raising trust never raises it.
func ProjectWith(s state.Snapshot, w Weights) scalar.Bounded {
	env := s.Envelope
	id := s.Identity

	// RoH is normalized against its ceiling.
	rohNorm := scalar.Clamp01(env.RoH / state.RoHCeiling)
	decayNorm := scalar.Clamp01(env.Decay / state.DecayCeiling)

	// Deficit grows as lifeforce falls toward the floor of its band.
	bandWidth := env.LifeforceMax - env.LifeforceMin
	if !(bandWidth > 1e-9) {
		bandWidth = 1e-9
	}
	lfPos := scalar.Clamp01((env.Lifeforce - env.LifeforceMin) / bandWidth)
	lfDeficit := 1 - lfPos

	risk := w.BioLoad*scalar.Clamp01(id.BioLoad) +
		w.NeuroDistress*scalar.Clamp01(id.NeuroDistress) +
		w.ContextLoad*scalar.Clamp01(id.ContextLoad) +
		w.RoH*rohNorm +
		w.Decay*decayNorm +
		w.LifeforceDeficit*lfDeficit

	relief := w.TrustRelief * scalar.Clamp01(id.Trust)

	return scalar.New(risk - relief)
}

// #endregion project
