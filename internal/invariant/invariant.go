package invariant

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #region envelope
// Envelope checks the absolute biophysical ceilings:
// RoH <= 0.30, decay <= 1.0, and lifeforce inside its band.
func Envelope(env state.Envelope) Result {
	var checks []Check

	checks = append(checks, atMost("roh", env.RoH, state.RoHCeiling))
	checks = append(checks, atMost("decay", env.Decay, state.DecayCeiling))
	checks = append(checks, atLeast("lifeforce_floor", env.Lifeforce, env.LifeforceMin))
	checks = append(checks, atMost("lifeforce_ceiling", env.Lifeforce, env.LifeforceMax))

	return result("envelope", checks)
}

// #endregion envelope

// #region territorial
// Territorial checks each load scope against its ceiling.
func Territorial(view state.TerritorialView) Result {
	scopes := []struct {
		name       string
		load, ceil scalar.Bounded
	}{
		{"local", view.Loads.Local, view.Ceilings.Local},
		{"room", view.Loads.Room, view.Ceilings.Room},
		{"grid", view.Loads.Grid, view.Ceilings.Grid},
	}

	checks := make([]Check, 0, len(scopes))
	for _, s := range scopes {
		checks = append(checks, atMost("territorial_"+s.name, s.load.Value(), s.ceil.Value()))
	}
	return result("territorial", checks)
}

// #endregion territorial

// #region ratio
// Ratio checks numerator <= k * denominator. k and the denominator are floored at 0.
func Ratio(r state.RatioPair) Result {
	k := math.Max(scalar.Finite(r.K), 0)
	allowed := k * math.Max(scalar.Finite(r.Denominator), 0)
	return result("ratio", []Check{atMost("ratio", scalar.Finite(r.Numerator), allowed)})
}

// #endregion ratio

// #region helpers
func atMost(name string, v, limit float64) Check {
	return Check{Name: name, Value: v, Limit: limit, Pass: v <= limit+Epsilon}
}

func atLeast(name string, v, limit float64) Check {
	return Check{Name: name, Value: v, Limit: limit, Pass: v >= limit-Epsilon}
}

// result folds checks into a Result whose reason names the first failure.
func result(family string, checks []Check) Result {
	var failReasons []string
	for _, c := range checks {
		if !c.Pass {
			failReasons = append(failReasons, fmt.Sprintf("%s %.4f outside limit %.4f", c.Name, c.Value, c.Limit))
		}
	}

	if len(failReasons) == 0 {
		return Result{Passed: true, Checks: checks, Reason: family + " checks passed"}
	}
	reason := fmt.Sprintf("%s failed: %s", family, failReasons[0])
	if len(failReasons) > 1 {
		reason = fmt.Sprintf("%s failed: %d checks: %s", family, len(failReasons), failReasons[0])
	}
	return Result{Passed: false, Checks: checks, Reason: reason}
}

// #endregion helpers
