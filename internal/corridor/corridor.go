package corridor

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #region zone

// Zone identifies the substrate a corridor is bound to.
type Zone string

const (
	ZoneNeuralBand      Zone = "neural_band"
	ZoneVascularConduit Zone = "vascular_conduit"
	ZoneHydrogelPatch   Zone = "hydrogel_patch"
	ZoneXRField         Zone = "xr_field"
	ZoneJetsonLineSite  Zone = "jetson_line_site"
)

// Zones lists every known zone.
var Zones = []Zone{
	ZoneNeuralBand,
	ZoneVascularConduit,
	ZoneHydrogelPatch,
	ZoneXRField,
	ZoneJetsonLineSite,
}

// Valid reports whether z is a known zone.
func (z Zone) Valid() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

// #endregion zone

// #region corridor

// Errors returned by NewCorridor.
var (
	ErrInvertedCorridor = errors.New("corridor min above max")
	ErrUnknownZone      = errors.New("unknown corridor zone")
)

// Corridor is the allowed [min, max] band for the projected risk scalar.
// The zone is fixed at construction; there is no setter.
type Corridor struct {
	zone Zone
	min  scalar.Bounded
	max  scalar.Bounded
}

// NewCorridor builds a corridor bound to zone. Bounds are clamped to [0, 1].
func NewCorridor(zone Zone, min, max float64) (Corridor, error) {
	if !zone.Valid() {
		return Corridor{}, fmt.Errorf("%w: %q", ErrUnknownZone, zone)
	}
	lo, hi := scalar.New(min), scalar.New(max)
	if hi.Less(lo) {
		return Corridor{}, fmt.Errorf("zone %s: %w (%.4f > %.4f)", zone, ErrInvertedCorridor, lo.Value(), hi.Value())
	}
	return Corridor{zone: zone, min: lo, max: hi}, nil
}

// Zone returns the identifier this corridor is bound to.
func (c Corridor) Zone() Zone { return c.zone }

// Min returns the lower bound.
func (c Corridor) Min() scalar.Bounded { return c.min }

// Max returns the upper bound.
func (c Corridor) Max() scalar.Bounded { return c.max }

// Contains reports whether b lies within [min, max], inclusive.
func (c Corridor) Contains(b scalar.Bounded) bool {
	return b.Compare(c.min) >= 0 && b.Compare(c.max) <= 0
}

// Width returns max - min.
func (c Corridor) Width() float64 {
	return c.max.Value() - c.min.Value()
}

// Narrow shrinks the corridor symmetrically around its midpoint by factor.
// factor is clamped to [0, 1], so the result never widens.
func (c Corridor) Narrow(factor float64) Corridor {
	f := scalar.Clamp01(factor)
	mid := 0.5 * (c.min.Value() + c.max.Value())
	half := 0.5 * c.Width() * f
	// Rounding in mid±half must not push a bound past the original.
	return Corridor{
		zone: c.zone,
		min:  scalar.New(mid - half).Max(c.min),
		max:  scalar.New(mid + half).Min(c.max),
	}
}

func (c Corridor) String() string {
	return fmt.Sprintf("%s[%s, %s]", c.zone, c.min, c.max)
}

// #endregion corridor

// #region tune

// Stressed reports whether any stress metric exceeds its configured maximum.
// A metric exactly at its maximum is not stressed.
func Stressed(m state.StressMetrics, l state.StressLimits) bool {
	return m.HPCC > l.HPCCMax || m.ERG > l.ERGMax || m.TECR > l.TECRMax
}

// Tune returns the effective corridor and territorial ceilings for snap.
// Without stress the baseline is returned unchanged. Under stress the corridor is
// narrowed around its midpoint and every ceiling is scaled by the tightening factor.
// Measured loads are never touched.
func Tune(snap state.Snapshot, base Corridor, ceilings state.Territorial) (Corridor, state.Territorial) {
	if !Stressed(snap.Stress, snap.StressLimits) {
		return base, ceilings
	}
	f := scalar.Clamp01(snap.StressLimits.TighteningFactor)
	return base.Narrow(f), ceilings.Scale(f)
}

// #endregion tune
