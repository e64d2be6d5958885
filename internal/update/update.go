package update

import (
	"math"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #region predict

// Predict is a pure function that applies change to snap and returns the predicted
// post-transition snapshot. tuned supplies the territorial ceilings, so stress
// tightening applies prospectively. snap is not modified.
func Predict(snap state.Snapshot, change ProposedChange, tuned state.Territorial) state.Snapshot {
	next := snap.Sanitized() // copy (value type)
	d := sanitizeChange(change)

	// 1. Envelope: RoH and decay floored at 0, lifeforce free so band checks see it.
	next.Envelope.RoH = math.Max(next.Envelope.RoH+d.DeltaRoH, 0)
	next.Envelope.Decay = math.Max(next.Envelope.Decay+d.DeltaDecay, 0)
	next.Envelope.Lifeforce += d.DeltaLifeforceEnv

	// 2. Identity axes clamped to [0, 1].
	next.Identity.BioLoad = scalar.Clamp01(next.Identity.BioLoad + d.DeltaBioLoad)
	next.Identity.NeuroDistress = scalar.Clamp01(next.Identity.NeuroDistress + d.DeltaNeuroDistress)
	next.Identity.Lifeforce += d.DeltaLifeforce
	next.Identity.ContextLoad = scalar.Clamp01(next.Identity.ContextLoad + d.DeltaContextLoad)
	next.Identity.Trust = scalar.Clamp01(next.Identity.Trust + d.DeltaTrust)

	// 3. Territorial loads clamped; ceilings come from the tuned view.
	loads := next.Territorial.Loads
	next.Territorial = state.TerritorialView{
		Loads: state.Territorial{
			Local: loads.Local.Add(d.DeltaLocal),
			Room:  loads.Room.Add(d.DeltaRoom),
			Grid:  loads.Grid.Add(d.DeltaGrid),
		},
		Ceilings: tuned,
	}

	// 4. Ratio numerator floored at 0.
	next.Ratio.Numerator = math.Max(next.Ratio.Numerator+d.DeltaNumerator, 0)

	return next
}

// #endregion predict

// #region helpers

// sanitizeChange maps NaN deltas to 0.
func sanitizeChange(c ProposedChange) ProposedChange {
	return ProposedChange{
		DeltaBioLoad:       scalar.Finite(c.DeltaBioLoad),
		DeltaNeuroDistress: scalar.Finite(c.DeltaNeuroDistress),
		DeltaLifeforce:     scalar.Finite(c.DeltaLifeforce),
		DeltaContextLoad:   scalar.Finite(c.DeltaContextLoad),
		DeltaTrust:         scalar.Finite(c.DeltaTrust),
		DeltaRoH:           scalar.Finite(c.DeltaRoH),
		DeltaDecay:         scalar.Finite(c.DeltaDecay),
		DeltaLifeforceEnv:  scalar.Finite(c.DeltaLifeforceEnv),
		DeltaLocal:         scalar.Finite(c.DeltaLocal),
		DeltaRoom:          scalar.Finite(c.DeltaRoom),
		DeltaGrid:          scalar.Finite(c.DeltaGrid),
		DeltaNumerator:     scalar.Finite(c.DeltaNumerator),
	}
}

// #endregion helpers
