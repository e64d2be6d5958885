package orchestrator

import (
	"testing"

	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

func attempt(v gate.Verdict, c update.ProposedChange) Attempt {
	return Attempt{Change: c, Decision: gate.GateDecision{Verdict: v}}
}

func TestRetryEngine_MaxRetries(t *testing.T) {
	engine := NewRetryEngine(2, 0.5)
	c := update.ProposedChange{DeltaBioLoad: 0.4}

	// 3 attempts already made, no more retries
	attempts := []Attempt{
		attempt(gate.VerdictDownscale, c),
		attempt(gate.VerdictDownscale, c.Scale(0.5)),
		attempt(gate.VerdictDownscale, c.Scale(0.25)),
	}

	if retry, _ := engine.ShouldRetry(attempts); retry {
		t.Error("should not retry after 3 attempts")
	}
}

func TestRetryEngine_FinalVerdictsNoRetry(t *testing.T) {
	engine := NewRetryEngine(2, 0.5)
	c := update.ProposedChange{DeltaRoH: 0.2}

	for _, v := range []gate.Verdict{gate.VerdictAllow, gate.VerdictBlock, gate.VerdictForceRepair} {
		if retry, _ := engine.ShouldRetry([]Attempt{attempt(v, c)}); retry {
			t.Errorf("should not retry after %s", v)
		}
	}
}

func TestRetryEngine_DownscaleRetriesWithScaledChange(t *testing.T) {
	engine := NewRetryEngine(2, 0.5)
	c := update.ProposedChange{DeltaBioLoad: 0.4, DeltaNumerator: -2}

	retry, next := engine.ShouldRetry([]Attempt{attempt(gate.VerdictDownscale, c)})
	if !retry {
		t.Fatal("should retry after downscale")
	}
	if next != c.Scale(0.5) {
		t.Fatalf("next change = %+v, want %+v", next, c.Scale(0.5))
	}
}

func TestRetryEngine_ZeroChangeNoRetry(t *testing.T) {
	engine := NewRetryEngine(2, 0.5)
	if retry, _ := engine.ShouldRetry([]Attempt{attempt(gate.VerdictDownscale, update.ProposedChange{})}); retry {
		t.Error("re-evaluating a zero change cannot change the verdict")
	}
}

func TestRetryEngine_Disabled(t *testing.T) {
	engine := NewRetryEngine(0, 0.5)
	if retry, _ := engine.ShouldRetry([]Attempt{attempt(gate.VerdictDownscale, update.ProposedChange{DeltaLocal: 0.1})}); retry {
		t.Error("zero max retries must disable re-evaluation")
	}
	if retry, _ := engine.ShouldRetry(nil); retry {
		t.Error("no attempts, no retry")
	}
}
