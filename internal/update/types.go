package update

// #region proposed-change

// ProposedChange carries additive deltas for every mutable snapshot field.
// It is produced upstream from an intended action; the gate only consumes it.
type ProposedChange struct {
	// Identity axes
	DeltaBioLoad       float64 `json:"delta_bio_load"`
	DeltaNeuroDistress float64 `json:"delta_neuro_distress"`
	DeltaLifeforce     float64 `json:"delta_lifeforce"`
	DeltaContextLoad   float64 `json:"delta_context_load"`
	DeltaTrust         float64 `json:"delta_trust"`

	// Envelope
	DeltaRoH          float64 `json:"delta_roh"`
	DeltaDecay        float64 `json:"delta_decay"`
	DeltaLifeforceEnv float64 `json:"delta_lifeforce_env"`

	// Territorial loads
	DeltaLocal float64 `json:"delta_local"`
	DeltaRoom  float64 `json:"delta_room"`
	DeltaGrid  float64 `json:"delta_grid"`

	// Ratio pair numerator
	DeltaNumerator float64 `json:"delta_numerator"`
}

// #endregion proposed-change

// #region scale

// Scale returns the change with every delta multiplied by f.
// Used to re-evaluate a reduced change after a Downscale verdict.
func (c ProposedChange) Scale(f float64) ProposedChange {
	return ProposedChange{
		DeltaBioLoad:       c.DeltaBioLoad * f,
		DeltaNeuroDistress: c.DeltaNeuroDistress * f,
		DeltaLifeforce:     c.DeltaLifeforce * f,
		DeltaContextLoad:   c.DeltaContextLoad * f,
		DeltaTrust:         c.DeltaTrust * f,
		DeltaRoH:           c.DeltaRoH * f,
		DeltaDecay:         c.DeltaDecay * f,
		DeltaLifeforceEnv:  c.DeltaLifeforceEnv * f,
		DeltaLocal:         c.DeltaLocal * f,
		DeltaRoom:          c.DeltaRoom * f,
		DeltaGrid:          c.DeltaGrid * f,
		DeltaNumerator:     c.DeltaNumerator * f,
	}
}

// IsZero reports whether the change has no effect.
func (c ProposedChange) IsZero() bool {
	return c == ProposedChange{}
}

// #endregion scale
