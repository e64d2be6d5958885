package diagnostic

import (
	"slices"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #region observer

// Observer computes advisory labels. It never actuates and never feeds a verdict.
type Observer struct {
	config Config
}

// NewObserver creates an Observer with the given thresholds.
func NewObserver(config Config) *Observer {
	return &Observer{config: config}
}

// #endregion observer

// #region observe

// Observe labels a single input. Labels are emitted D1, then D3, then D5.
func (o *Observer) Observe(in Input) View {
	cfg := o.config
	a := sanitizeAssets(in.Assets)
	roh := scalar.Clamp01(in.RoH)

	var out []Diagnostic

	// 1D: lifeforce against decay.
	if a.Lifeforce >= cfg.LifeforceFloor && a.Decay < cfg.DecayBoundary {
		out = append(out, diag(LabelD1Fair, D1,
			"overall fair: lifeforce above floor and decay below boundary",
			"assets.lifeforce", "assets.decay", "roh"))
	} else {
		out = append(out, diag(LabelD1UnfairDrainRisk, D1,
			"elevated unfair-drain risk: lifeforce depleted or decay near boundary",
			"assets.lifeforce", "assets.decay", "roh"))
	}

	// 3D: decay, lifeforce, power. At most one label.
	switch {
	case a.Decay < cfg.DecayBoundary && a.Lifeforce >= cfg.LifeforceFloor && a.Power < cfg.PowerUnfair:
		out = append(out, diag(LabelD3Fair, D3,
			"fair energy budget: decay low, lifeforce adequate, power below unfair threshold",
			"assets.decay", "assets.lifeforce", "assets.power"))
	case a.Power >= cfg.PowerUnfair && a.Lifeforce < cfg.LifeforceFloor:
		out = append(out, diag(LabelD3UnfairDrainRisk, D3,
			"unfair-drain risk: power high while lifeforce is depleted",
			"assets.decay", "assets.lifeforce", "assets.power"))
	case roh >= cfg.DecayBoundary:
		out = append(out, diag(LabelD3OverloadRisk, D3,
			"overload risk: roh at or above the decay boundary",
			"assets.decay", "roh"))
	}

	// 5D: predicates plus fear and pain. Independent labels.
	if has(in.Predicates, PredicateCalmStable) && a.Decay < cfg.DecayBoundary && a.Fear < cfg.FearOverload {
		out = append(out, diag(LabelD5CalmStable, D5,
			"calm-stable: calm_stable predicate, low decay, low fear",
			"predicate.calm_stable", "assets.decay", "assets.fear", "assets.pain"))
	}
	if has(in.Predicates, PredicateBoundarySkimming) && a.Decay >= cfg.DecayBoundary && roh < state.RoHCeiling {
		out = append(out, diag(LabelD5BoundarySkimming, D5,
			"boundary skimming: boundary_skimming predicate, decay past boundary, roh under ceiling",
			"predicate.boundary_skimming", "assets.decay", "roh"))
	}
	if has(in.Predicates, PredicateUnfairDrain) && a.Lifeforce < cfg.LifeforceFloor && a.Power >= cfg.PowerUnfair {
		out = append(out, diag(LabelD5UnfairDrainConfirmed, D5,
			"unfair drain confirmed: unfair_drain predicate, low lifeforce, high power",
			"predicate.unfair_drain", "assets.lifeforce", "assets.power"))
	}
	if has(in.Predicates, PredicateOverloaded) &&
		(a.Fear >= cfg.FearOverload || a.Pain >= cfg.PainOverload) && roh < state.RoHCeiling {
		out = append(out, diag(LabelD5OverloadedRecoveryWindow, D5,
			"overloaded recovery window: overloaded predicate with high fear or pain, roh under ceiling",
			"predicate.overloaded", "assets.fear", "assets.pain", "roh"))
	}

	return View{
		Capability:  in.Capability,
		RoH:         roh,
		EvolveIndex: in.EvolveIndex,
		EpochIndex:  in.EpochIndex,
		Diagnostics: out,
	}
}

// #endregion observe

// #region flags

// Has reports whether the view carries label l.
func (v View) Has(l Label) bool {
	for _, d := range v.Diagnostics {
		if d.Label == l {
			return true
		}
	}
	return false
}

// Labels returns the labels in emission order.
func (v View) Labels() []Label {
	out := make([]Label, 0, len(v.Diagnostics))
	for _, d := range v.Diagnostics {
		out = append(out, d.Label)
	}
	return out
}

// Flags folds the view into snapshot diagnostic flags. DiagnosticOnly is always set.
func (v View) Flags() state.DiagnosticFlags {
	return state.DiagnosticFlags{
		Beast:          v.Has(LabelD3OverloadRisk) || v.Has(LabelD5OverloadedRecoveryWindow),
		Plague:         v.Has(LabelD5BoundarySkimming),
		UnfairDrain:    v.Has(LabelD1UnfairDrainRisk) || v.Has(LabelD3UnfairDrainRisk) || v.Has(LabelD5UnfairDrainConfirmed),
		DiagnosticOnly: true,
	}
}

// #endregion flags

// #region helpers

func diag(l Label, dim Dimension, explanation string, sources ...string) Diagnostic {
	return Diagnostic{
		Label: l,
		Provenance: Provenance{
			Dimension:   dim,
			Explanation: explanation,
			Sources:     sources,
		},
	}
}

func has(preds []Predicate, p Predicate) bool {
	return slices.Contains(preds, p)
}

// sanitizeAssets maps NaN to 0.
func sanitizeAssets(a Assets) Assets {
	return Assets{
		Decay:     scalar.Finite(a.Decay),
		Lifeforce: scalar.Finite(a.Lifeforce),
		Power:     scalar.Finite(a.Power),
		Fear:      scalar.Finite(a.Fear),
		Pain:      scalar.Finite(a.Pain),
	}
}

// #endregion helpers
