package reversal

import (
	"fmt"

	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
)

// #region capability-state
// CapabilityState is a tier on the capability lattice, most restrictive first.
type CapabilityState int

const (
	ModelOnly CapabilityState = iota
	LabBench
	ControlledHuman
	GeneralUse
)

var capabilityNames = map[CapabilityState]string{
	ModelOnly:       "model_only",
	LabBench:        "lab_bench",
	ControlledHuman: "controlled_human",
	GeneralUse:      "general_use",
}

// CapabilityStates lists every tier in lattice order.
var CapabilityStates = []CapabilityState{ModelOnly, LabBench, ControlledHuman, GeneralUse}

func (c CapabilityState) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// Valid reports whether c is a known tier.
func (c CapabilityState) Valid() bool {
	_, ok := capabilityNames[c]
	return ok
}

// Less reports whether c sits below o on the lattice.
func (c CapabilityState) Less(o CapabilityState) bool {
	return c < o
}

// MarshalText encodes the tier by name.
func (c CapabilityState) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal capability state: unknown tier %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a tier name.
func (c *CapabilityState) UnmarshalText(text []byte) error {
	for state, name := range capabilityNames {
		if name == string(text) {
			*c = state
			return nil
		}
	}
	return fmt.Errorf("unmarshal capability state: unknown tier %q", text)
}

// #endregion capability-state

// #region transition
// Transition is a (from, to) move on the lattice.
type Transition struct {
	From CapabilityState `json:"from"`
	To   CapabilityState `json:"to"`
}

func (t Transition) String() string {
	return t.From.String() + "->" + t.To.String()
}

// #endregion transition

// #region context
// Reason strings carried by a denied Decision.
const (
	ReasonNonRegulator = "illegal downgrade attempted by non-regulator"
	ReasonRoHViolation = "risk-of-harm violation"
)

// Context is everything the guard needs to judge one capability move.
// RoHBefore and RoHAfter come from an external risk-of-harm producer.
type Context struct {
	Before          CapabilityState `json:"before"`
	After           CapabilityState `json:"after"`
	RoHBefore       scalar.Bounded  `json:"roh_before"`
	RoHAfter        scalar.Bounded  `json:"roh_after"`
	DiagnosticEvent bool            `json:"diagnostic_event"` // originates from an observer path
}

// Decision is Allowed, or denied with a reason.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// #endregion context
