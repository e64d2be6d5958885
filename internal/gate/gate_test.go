package gate

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/scalar"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// makeSnapshot returns a snapshot whose risk is 0.18*bio + 0.41 and that passes every ceiling.
func makeSnapshot(bio float64) state.Snapshot {
	return state.Snapshot{
		SiteID: "site-test",
		Envelope: state.Envelope{
			RoH: 0.15, Decay: 0.5, Lifeforce: 0.6, LifeforceMin: 0.2, LifeforceMax: 1.0,
		},
		Identity: state.Identity{
			BioLoad: bio, NeuroDistress: 0.5, Lifeforce: 0.6, ContextLoad: 0.5, Trust: 0,
		},
		Territorial: state.TerritorialView{
			Loads:    state.Territorial{Local: scalar.New(0.1), Room: scalar.New(0.1), Grid: scalar.New(0.1)},
			Ceilings: state.Territorial{Local: scalar.New(0.9), Room: scalar.New(0.9), Grid: scalar.New(0.9)},
		},
		Ratio:        state.RatioPair{Numerator: 1, Denominator: 2, K: 1},
		StressLimits: state.StressLimits{HPCCMax: 0.5, ERGMax: 0.5, TECRMax: 0.5, TighteningFactor: 0.25},
		Diagnostics:  state.DiagnosticFlags{DiagnosticOnly: true},
	}
}

func makeCorridor(t *testing.T, min, max float64) corridor.Corridor {
	t.Helper()
	c, err := corridor.NewCorridor(corridor.ZoneNeuralBand, min, max)
	if err != nil {
		t.Fatalf("NewCorridor: %v", err)
	}
	return c
}

func makeGate(t *testing.T) *Gate {
	t.Helper()
	g, err := NewGate(DefaultGateConfig())
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return g
}

func TestNewGateRejectsInvalidWeights(t *testing.T) {
	cfg := DefaultGateConfig()
	cfg.Weights.BioLoad = 0.9
	if _, err := NewGate(cfg); !errors.Is(err, projection.ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestAllowInsideCorridor(t *testing.T) {
	g := makeGate(t)
	d := g.Evaluate(makeSnapshot(0.2), makeCorridor(t, 0, 0.6), update.ProposedChange{DeltaBioLoad: 0.3})
	if d.Verdict != VerdictAllow {
		t.Fatalf("expected allow, got %s: %s", d.Verdict, d.Reason)
	}
	if len(d.Failed) != 0 {
		t.Fatalf("allow should carry no failed checks: %+v", d.Failed)
	}
	if d.Stressed {
		t.Fatal("no stress expected")
	}
}

func TestCorridorTieBreak(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 0.3)

	// Both cases predict bio 0.5, risk 0.50, outside [0, 0.3].
	rising := g.Evaluate(makeSnapshot(0.2), c, update.ProposedChange{DeltaBioLoad: 0.3})
	falling := g.Evaluate(makeSnapshot(0.8), c, update.ProposedChange{DeltaBioLoad: -0.3})

	if rising.PredictedRisk.Compare(falling.PredictedRisk) != 0 {
		t.Fatalf("predicted risks differ: %s vs %s", rising.PredictedRisk, falling.PredictedRisk)
	}
	if rising.Verdict != VerdictForceRepair {
		t.Errorf("rising risk: expected force_repair, got %s", rising.Verdict)
	}
	if falling.Verdict != VerdictDownscale {
		t.Errorf("falling risk: expected downscale, got %s", falling.Verdict)
	}
}

func TestFlatRiskOutsideCorridorDownscales(t *testing.T) {
	g := makeGate(t)
	d := g.Evaluate(makeSnapshot(0.5), makeCorridor(t, 0, 0.3), update.ProposedChange{})
	if d.Verdict != VerdictDownscale {
		t.Fatalf("expected downscale for flat risk, got %s", d.Verdict)
	}
}

func TestCeilingEnforcement(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 1)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 1000; i++ {
		snap := makeSnapshot(rng.Float64())
		snap.Envelope.RoH = rng.Float64() * 0.3
		snap.Identity.Trust = rng.Float64()

		var change update.ProposedChange
		if i%2 == 0 {
			change.DeltaRoH = state.RoHCeiling - snap.Envelope.RoH + 1e-6 + rng.Float64()*0.5
		} else {
			change.DeltaDecay = state.DecayCeiling - snap.Envelope.Decay + 1e-6 + rng.Float64()
		}
		// A ratio breach must not mask the envelope breach.
		change.DeltaNumerator = rng.Float64() * 10

		if v := g.Evaluate(snap, c, change).Verdict; v != VerdictForceRepair {
			t.Fatalf("case %d: expected force_repair, got %s (change %+v)", i, v, change)
		}
	}
}

func TestTerritorialEnforcement(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 1)
	rng := rand.New(rand.NewSource(13))

	for i := 0; i < 1000; i++ {
		snap := makeSnapshot(0.3)
		ceil := 0.1 + rng.Float64()*0.8
		snap.Territorial.Ceilings = state.Territorial{Local: scalar.New(ceil), Room: scalar.New(ceil), Grid: scalar.New(ceil)}
		snap.Territorial.Loads = state.Territorial{Local: scalar.Zero, Room: scalar.Zero, Grid: scalar.Zero}

		over := ceil + 0.01 + rng.Float64()*0.05
		var change update.ProposedChange
		switch i % 3 {
		case 0:
			change.DeltaLocal = over
		case 1:
			change.DeltaRoom = over
		default:
			change.DeltaGrid = over
		}

		d := g.Evaluate(snap, c, change)
		if d.Verdict != VerdictForceRepair {
			t.Fatalf("case %d: expected force_repair, got %s", i, d.Verdict)
		}
		if len(d.Failed) != 1 {
			t.Fatalf("case %d: expected one failed scope, got %+v", i, d.Failed)
		}
	}
}

func TestRatioEnforcementBlocks(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 1)
	rng := rand.New(rand.NewSource(17))

	for i := 0; i < 1000; i++ {
		snap := makeSnapshot(0.3)
		snap.Ratio = state.RatioPair{Numerator: 0, Denominator: rng.Float64() * 5, K: rng.Float64() * 3}
		allowed := snap.Ratio.K * snap.Ratio.Denominator

		d := g.Evaluate(snap, c, update.ProposedChange{DeltaNumerator: allowed + 1e-6 + rng.Float64()})
		if d.Verdict != VerdictBlock {
			t.Fatalf("case %d: expected block, got %s: %s", i, d.Verdict, d.Reason)
		}
	}
}

func TestStressNarrowsCorridor(t *testing.T) {
	g := makeGate(t)
	base := makeCorridor(t, 0.2, 0.6)
	snap := makeSnapshot(0.5) // risk 0.50

	if d := g.Evaluate(snap, base, update.ProposedChange{}); d.Verdict != VerdictAllow {
		t.Fatalf("unstressed: expected allow, got %s", d.Verdict)
	}

	snap.Stress.HPCC = 0.9
	d := g.Evaluate(snap, base, update.ProposedChange{})
	if !d.Stressed {
		t.Fatal("expected stressed decision")
	}
	if d.Verdict != VerdictDownscale {
		t.Fatalf("stressed: expected downscale, got %s: %s", d.Verdict, d.Reason)
	}
	if d.Corridor.Width() >= base.Width() {
		t.Fatalf("corridor not narrowed: %s", d.Corridor)
	}
}

func TestStressTightensCeilingsProspectively(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 1)
	snap := makeSnapshot(0.3)
	snap.Territorial.Loads = state.Territorial{Local: scalar.New(0.2), Room: scalar.New(0.2), Grid: scalar.New(0.2)}
	snap.Territorial.Ceilings = state.Territorial{Local: scalar.New(0.8), Room: scalar.New(0.8), Grid: scalar.New(0.8)}

	if v := g.Evaluate(snap, c, update.ProposedChange{}).Verdict; v != VerdictAllow {
		t.Fatalf("unstressed: expected allow, got %s", v)
	}

	snap.Stress.ERG = 0.6 // ceilings 0.8 * 0.25 = 0.2, loads rise above it
	d := g.Evaluate(snap, c, update.ProposedChange{DeltaLocal: 0.05})
	if d.Verdict != VerdictForceRepair {
		t.Fatalf("stressed: expected force_repair, got %s", d.Verdict)
	}
}

func TestDiagnosticContractFailsClosed(t *testing.T) {
	g := makeGate(t)
	snap := makeSnapshot(0.1)
	snap.Diagnostics.DiagnosticOnly = false

	d := g.Evaluate(snap, makeCorridor(t, 0, 1), update.ProposedChange{})
	if d.Verdict != VerdictForceRepair {
		t.Fatalf("expected force_repair, got %s", d.Verdict)
	}
	if len(d.Failed) != 1 || d.Failed[0].Name != "diagnostic_contract" {
		t.Fatalf("expected diagnostic_contract failure, got %+v", d.Failed)
	}
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	g := makeGate(t)
	snap := makeSnapshot(0.4)
	snap.Stress.TECR = 2
	want := makeSnapshot(0.4)
	want.Stress.TECR = 2

	_ = g.Evaluate(snap, makeCorridor(t, 0.1, 0.9), update.ProposedChange{DeltaLocal: 0.5, DeltaRoH: 0.1})

	opt := cmp.Comparer(func(a, b scalar.Bounded) bool { return a.Compare(b) == 0 })
	if diff := cmp.Diff(want, snap, opt); diff != "" {
		t.Fatalf("snapshot mutated (-want +got):\n%s", diff)
	}
}

func TestEvaluateTransitionMatchesDefaultGate(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 0.3)
	snap := makeSnapshot(0.2)
	change := update.ProposedChange{DeltaBioLoad: 0.3}
	if got, want := EvaluateTransition(snap, c, change), g.Evaluate(snap, c, change).Verdict; got != want {
		t.Fatalf("EvaluateTransition = %s, want %s", got, want)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	g := makeGate(t)
	c := makeCorridor(t, 0, 0.3)
	snap := makeSnapshot(0.2)
	change := update.ProposedChange{DeltaBioLoad: 0.3}
	want := g.Evaluate(snap, c, change).Verdict

	var wg sync.WaitGroup
	errs := make(chan Verdict, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v := g.Evaluate(snap, c, change).Verdict; v != want {
				errs <- v
			}
		}()
	}
	wg.Wait()
	close(errs)
	for v := range errs {
		t.Fatalf("concurrent evaluation returned %s, want %s", v, want)
	}
}

func TestVerdictSeverity(t *testing.T) {
	if !(VerdictAllow.Severity() < VerdictDownscale.Severity() &&
		VerdictDownscale.Severity() < VerdictBlock.Severity() &&
		VerdictBlock.Severity() < VerdictForceRepair.Severity()) {
		t.Fatal("verdict severities out of order")
	}
	if Verdict("bogus").Severity() <= VerdictForceRepair.Severity() {
		t.Fatal("unknown verdict must rank most severe")
	}
}
