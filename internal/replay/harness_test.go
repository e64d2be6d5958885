package replay

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// makeSnapshot returns a healthy snapshot whose projected risk is 0.18*bio + 0.41.
func makeSnapshot(bio float64) state.Snapshot {
	ceil := scalar.New(0.9)
	load := scalar.New(0.1)
	return state.Snapshot{
		SiteID:   "replay-site",
		Envelope: state.Envelope{RoH: 0.15, Decay: 0.5, Lifeforce: 0.6, LifeforceMin: 0.2, LifeforceMax: 1.0},
		Identity: state.Identity{BioLoad: bio, NeuroDistress: 0.5, Lifeforce: 0.6, ContextLoad: 0.5},
		Territorial: state.TerritorialView{
			Loads:    state.Territorial{Local: load, Room: load, Grid: load},
			Ceilings: state.Territorial{Local: ceil, Room: ceil, Grid: ceil},
		},
		Ratio:        state.RatioPair{Numerator: 1, Denominator: 2, K: 1},
		StressLimits: state.StressLimits{HPCCMax: 0.5, ERGMax: 0.5, TECRMax: 0.5, TighteningFactor: 0.25},
		Diagnostics:  state.DiagnosticFlags{DiagnosticOnly: true},
	}
}

func mustCorridor(t *testing.T, min, max float64) corridor.Corridor {
	t.Helper()
	c, err := corridor.NewCorridor(corridor.ZoneNeuralBand, min, max)
	if err != nil {
		t.Fatalf("NewCorridor: %v", err)
	}
	return c
}

func TestReplayMatchesAndMismatches(t *testing.T) {
	scenarios := []Scenario{
		{
			ID:       "allow",
			Snapshot: makeSnapshot(0.2),
			Change:   update.ProposedChange{DeltaBioLoad: 0.3},
			Corridor: mustCorridor(t, 0, 0.6),
			Expected: gate.VerdictAllow,
		},
		{
			ID:       "wrong-expectation",
			Snapshot: makeSnapshot(0.2),
			Change:   update.ProposedChange{DeltaBioLoad: 0.3},
			Corridor: mustCorridor(t, 0, 0.3),
			Expected: gate.VerdictAllow, // gate says force_repair
		},
	}

	results, err := Replay(scenarios, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if !results[0].Match || results[0].Decision.Verdict != gate.VerdictAllow {
		t.Errorf("allow: %+v", results[0])
	}
	if results[1].Match || results[1].Decision.Verdict != gate.VerdictForceRepair {
		t.Errorf("wrong-expectation: %+v", results[1])
	}

	s := Summarize(results, nil)
	if s.Matches != 1 || len(s.Mismatches) != 1 || s.Mismatches[0] != "wrong-expectation" {
		t.Fatalf("summary: %+v", s)
	}
	if s.ByVerdict[gate.VerdictAllow] != 1 || s.ByVerdict[gate.VerdictForceRepair] != 1 {
		t.Fatalf("by verdict: %v", s.ByVerdict)
	}
}

func TestReplayUnexpectedRejection(t *testing.T) {
	snap := makeSnapshot(0.2)
	snap.Envelope.LifeforceMin, snap.Envelope.LifeforceMax = 0.9, 0.1

	results, err := Replay([]Scenario{{
		ID:       "inverted",
		Snapshot: snap,
		Corridor: mustCorridor(t, 0, 1),
		Expected: gate.VerdictAllow,
	}}, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	r := results[0]
	if r.Match {
		t.Fatal("rejection should not match an expected verdict")
	}
	if !errors.Is(r.Rejected, state.ErrInvertedBand) {
		t.Fatalf("expected ErrInvertedBand, got %v", r.Rejected)
	}
	if r.Decision.Verdict != "" {
		t.Fatalf("rejected scenario carries a verdict: %s", r.Decision.Verdict)
	}
}

func TestReplayExpectedRejectionNotMetIsMismatch(t *testing.T) {
	results, err := Replay([]Scenario{{
		ID:             "healthy",
		Snapshot:       makeSnapshot(0.2),
		Corridor:       mustCorridor(t, 0, 1),
		ExpectRejected: true,
	}}, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if results[0].Match {
		t.Fatal("a healthy snapshot cannot satisfy expect_rejected")
	}
}

func TestReplayRejectsInvalidWeights(t *testing.T) {
	cfg := DefaultReplayConfig()
	cfg.GateConfig.Weights = projection.Weights{BioLoad: 2}
	if _, err := Replay(nil, cfg); !errors.Is(err, projection.ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestReplayDeterministic(t *testing.T) {
	f := loadScenarios(t)
	scenarios, err := f.Scenarios()
	if err != nil {
		t.Fatalf("Scenarios: %v", err)
	}
	first, err := Replay(scenarios, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Replay(scenarios, DefaultReplayConfig())
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		for j := range first {
			if first[j].Decision.Verdict != again[j].Decision.Verdict ||
				first[j].Decision.PredictedRisk != again[j].Decision.PredictedRisk {
				t.Fatalf("run %d scenario %s diverged", i, first[j].ID)
			}
		}
	}
}

func TestReplayReversals(t *testing.T) {
	cases := []ReversalCase{
		{
			ID:       "forward",
			Context:  reversal.Context{Before: reversal.LabBench, After: reversal.GeneralUse},
			Expected: reversal.Decision{Allowed: true},
		},
		{
			ID:       "downgrade",
			Context:  reversal.Context{Before: reversal.ControlledHuman, After: reversal.ModelOnly},
			Expected: reversal.Decision{Allowed: false, Reason: reversal.ReasonNonRegulator},
		},
		{
			ID:       "wrong-reason",
			Context:  reversal.Context{Before: reversal.GeneralUse, After: reversal.ModelOnly},
			Expected: reversal.Decision{Allowed: false, Reason: reversal.ReasonRoHViolation},
		},
	}

	results := ReplayReversals(cases)
	if !results[0].Match || !results[1].Match {
		t.Fatalf("expected matches: %+v", results[:2])
	}
	if results[2].Match {
		t.Fatal("reason mismatch should not match")
	}

	s := Summarize(nil, results)
	if s.TotalReversals != 3 || s.ReversalMatches != 2 {
		t.Fatalf("summary: %+v", s)
	}
	if len(s.ReversalMismatches) != 1 || s.ReversalMismatches[0] != "wrong-reason" {
		t.Fatalf("mismatches: %v", s.ReversalMismatches)
	}
}
