package state

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
)

// ErrInvertedBand is returned when the lifeforce ceiling sits below its floor.
var ErrInvertedBand = errors.New("lifeforce band inverted")

// #region constructor

// NewSnapshot sanitizes s and rejects an inverted lifeforce band.
// NaN fields are coerced to 0; identity axes are clamped to [0, 1].
func NewSnapshot(s Snapshot) (Snapshot, error) {
	out := s.Sanitized()
	if out.Envelope.LifeforceMax < out.Envelope.LifeforceMin {
		return Snapshot{}, fmt.Errorf("site %q: %w (min %.4f, max %.4f)",
			s.SiteID, ErrInvertedBand, out.Envelope.LifeforceMin, out.Envelope.LifeforceMax)
	}
	return out, nil
}

// #endregion constructor

// #region sanitize

// Sanitized returns a copy with NaN coerced to 0 and identity axes clamped.
// Envelope and ratio values keep their magnitude so ceiling checks still see excursions.
func (s Snapshot) Sanitized() Snapshot {
	out := s

	out.Envelope = Envelope{
		RoH:          scalar.Finite(s.Envelope.RoH),
		Decay:        scalar.Finite(s.Envelope.Decay),
		Lifeforce:    scalar.Finite(s.Envelope.Lifeforce),
		LifeforceMin: scalar.Finite(s.Envelope.LifeforceMin),
		LifeforceMax: scalar.Finite(s.Envelope.LifeforceMax),
	}

	out.Identity = Identity{
		BioLoad:       scalar.Clamp01(s.Identity.BioLoad),
		NeuroDistress: scalar.Clamp01(s.Identity.NeuroDistress),
		Lifeforce:     scalar.Finite(s.Identity.Lifeforce),
		ContextLoad:   scalar.Clamp01(s.Identity.ContextLoad),
		Trust:         scalar.Clamp01(s.Identity.Trust),
	}

	out.Ratio = RatioPair{
		Numerator:   scalar.Finite(s.Ratio.Numerator),
		Denominator: scalar.Finite(s.Ratio.Denominator),
		K:           scalar.Finite(s.Ratio.K),
	}

	out.Stress = StressMetrics{
		HPCC: scalar.Finite(s.Stress.HPCC),
		ERG:  scalar.Finite(s.Stress.ERG),
		TECR: scalar.Finite(s.Stress.TECR),
	}

	// A NaN limit becomes 0, which can only tighten.
	out.StressLimits = StressLimits{
		HPCCMax:          scalar.Finite(s.StressLimits.HPCCMax),
		ERGMax:           scalar.Finite(s.StressLimits.ERGMax),
		TECRMax:          scalar.Finite(s.StressLimits.TECRMax),
		TighteningFactor: scalar.Finite(s.StressLimits.TighteningFactor),
	}

	return out
}

// #endregion sanitize
