package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description  string              `json:"description"`
	Config       FixtureConfig       `json:"config"`
	Corridor     FixtureCorridor     `json:"corridor"`
	BaseSnapshot state.Snapshot      `json:"base_snapshot"`
	Transitions  []FixtureTransition `json:"transitions"`
	Reversals    []FixtureReversal   `json:"reversals"`
}

// FixtureConfig overrides gate configuration. Nil weights mean the defaults.
type FixtureConfig struct {
	Weights *projection.Weights `json:"weights,omitempty"`
}

// FixtureCorridor is a JSON-serializable corridor.
type FixtureCorridor struct {
	Zone corridor.Zone `json:"zone"`
	Min  float64       `json:"min"`
	Max  float64       `json:"max"`
}

// FixtureTransition is one scalar gate case. Snapshot holds only the fields that
// differ from the fixture's base snapshot; it is decoded on top of a copy of it.
type FixtureTransition struct {
	ID             string                `json:"id"`
	Snapshot       json.RawMessage       `json:"snapshot,omitempty"`
	Change         update.ProposedChange `json:"change"`
	Corridor       *FixtureCorridor      `json:"corridor,omitempty"`
	Expected       gate.Verdict          `json:"expected,omitempty"`
	ExpectRejected bool                  `json:"expect_rejected,omitempty"` // malformed snapshot
}

// FixtureReversal is one capability guard case.
type FixtureReversal struct {
	ID              string           `json:"id"`
	Context         reversal.Context `json:"context"`
	ExpectedAllowed bool             `json:"expected_allowed"`
	ExpectedReason  string           `json:"expected_reason,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToCorridor converts a FixtureCorridor to a zone-bound corridor.
func (fc FixtureCorridor) ToCorridor() (corridor.Corridor, error) {
	return corridor.NewCorridor(fc.Zone, fc.Min, fc.Max)
}

// ToReplayConfig converts a FixtureConfig to a domain ReplayConfig.
func (fc FixtureConfig) ToReplayConfig() ReplayConfig {
	cfg := DefaultReplayConfig()
	if fc.Weights != nil {
		cfg.GateConfig.Weights = *fc.Weights
	}
	return cfg
}

// Scenarios resolves every transition against the base snapshot and corridor.
func (f *Fixture) Scenarios() ([]Scenario, error) {
	base, err := f.Corridor.ToCorridor()
	if err != nil {
		return nil, fmt.Errorf("fixture corridor: %w", err)
	}

	out := make([]Scenario, 0, len(f.Transitions))
	for _, ft := range f.Transitions {
		snap := f.BaseSnapshot
		if len(ft.Snapshot) > 0 {
			if err := json.Unmarshal(ft.Snapshot, &snap); err != nil {
				return nil, fmt.Errorf("transition %s: snapshot: %w", ft.ID, err)
			}
		}

		c := base
		if ft.Corridor != nil {
			if c, err = ft.Corridor.ToCorridor(); err != nil {
				return nil, fmt.Errorf("transition %s: %w", ft.ID, err)
			}
		}

		out = append(out, Scenario{
			ID:             ft.ID,
			Snapshot:       snap,
			Change:         ft.Change,
			Corridor:       c,
			Expected:       ft.Expected,
			ExpectRejected: ft.ExpectRejected,
		})
	}
	return out, nil
}

// ReversalCases converts the fixture's reversal entries.
func (f *Fixture) ReversalCases() []ReversalCase {
	out := make([]ReversalCase, len(f.Reversals))
	for i, fr := range f.Reversals {
		out[i] = ReversalCase{
			ID:       fr.ID,
			Context:  fr.Context,
			Expected: reversal.Decision{Allowed: fr.ExpectedAllowed, Reason: fr.ExpectedReason},
		}
	}
	return out
}

// #endregion fixture-loader
