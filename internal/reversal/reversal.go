package reversal

import (
	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #region downgrade-table
// downgrades is the fixed set of forbidden moves. It is data, not derived from Less.
var downgrades = map[Transition]struct{}{
	{From: ControlledHuman, To: LabBench}:  {},
	{From: ControlledHuman, To: ModelOnly}: {},
	{From: GeneralUse, To: ControlledHuman}: {},
	{From: GeneralUse, To: LabBench}:        {},
	{From: GeneralUse, To: ModelOnly}:       {},
}

// Downgrades returns a copy of the downgrade table in lattice order.
func Downgrades() []Transition {
	out := make([]Transition, 0, len(downgrades))
	for _, from := range CapabilityStates {
		for _, to := range CapabilityStates {
			t := Transition{From: from, To: to}
			if _, ok := downgrades[t]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// IsDowngrade reports whether t is in the downgrade table.
func IsDowngrade(t Transition) bool {
	_, ok := downgrades[t]
	return ok
}

// #endregion downgrade-table

// #region evaluate
var rohCeiling = scalar.New(state.RoHCeiling)

// Evaluate judges ctx. Checks run in fixed order and the first denial wins.
func Evaluate(ctx Context) Decision {
	// 1. Observers can never authorize a capability change.
	if ctx.DiagnosticEvent {
		return deny(ReasonNonRegulator)
	}

	// 2. From the most constrained human tier RoH may not rise or cross its ceiling.
	if ctx.Before == ControlledHuman {
		if ctx.RoHBefore.Less(ctx.RoHAfter) || rohCeiling.Less(ctx.RoHAfter) {
			return deny(ReasonRoHViolation)
		}
	}

	// 3. Same-tier and forward moves pass.
	if !IsDowngrade(Transition{From: ctx.Before, To: ctx.After}) {
		return Decision{Allowed: true}
	}

	// 4. Downgrades are structurally forbidden.
	return deny(ReasonNonRegulator)
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// #endregion evaluate
