package scalar

import (
	"encoding/json"
	"fmt"
	"math"
)

// #region bounded

// Bounded is a value held in [0, 1]. The zero value is 0.
// Every operation re-clamps, so a Bounded is never observed outside the range.
type Bounded struct {
	v float64
}

// Common values.
var (
	Zero = Bounded{}
	One  = Bounded{v: 1}
)

// New clamps x into [0, 1]. NaN becomes 0; ±Inf saturate.
func New(x float64) Bounded {
	return Bounded{v: Clamp01(x)}
}

// Value returns the underlying float.
func (b Bounded) Value() float64 {
	return b.v
}

// Min returns the smaller of b and o.
func (b Bounded) Min(o Bounded) Bounded {
	return New(math.Min(b.v, o.v))
}

// Max returns the larger of b and o.
func (b Bounded) Max(o Bounded) Bounded {
	return New(math.Max(b.v, o.v))
}

// Add returns b + d, saturating at the bounds.
func (b Bounded) Add(d float64) Bounded {
	return New(b.v + d)
}

// Scale returns b * f, saturating at the bounds.
func (b Bounded) Scale(f float64) Bounded {
	return New(b.v * f)
}

// Compare returns -1, 0 or +1. Bounded values are never NaN, so the order is total.
func (b Bounded) Compare(o Bounded) int {
	switch {
	case b.v < o.v:
		return -1
	case b.v > o.v:
		return 1
	default:
		return 0
	}
}

// Less reports whether b < o.
func (b Bounded) Less(o Bounded) bool {
	return b.v < o.v
}

func (b Bounded) String() string {
	return fmt.Sprintf("%.4f", b.v)
}

// #endregion bounded

// #region json

// MarshalJSON encodes the value as a plain number.
func (b Bounded) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.v)
}

// UnmarshalJSON decodes a number and clamps it.
func (b *Bounded) UnmarshalJSON(data []byte) error {
	var x float64
	if err := json.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("decode bounded scalar: %w", err)
	}
	*b = New(x)
	return nil
}

// #endregion json

// #region helpers

// Clamp01 restricts x to [0, 1], mapping NaN to 0.
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Clamp restricts x to [lo, hi], mapping NaN to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Finite maps NaN to 0 and leaves every other value untouched.
func Finite(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// #endregion helpers
