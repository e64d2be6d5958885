package replay

import (
	"fmt"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #region types
// Scenario is a single recorded transition for replay.
type Scenario struct {
	ID             string
	Snapshot       state.Snapshot
	Change         update.ProposedChange
	Corridor       corridor.Corridor
	Expected       gate.Verdict
	ExpectRejected bool
}

// ReversalCase is a single recorded capability move for replay.
type ReversalCase struct {
	ID       string
	Context  reversal.Context
	Expected reversal.Decision
}

// ReplayConfig holds the gate configuration for a replay run.
type ReplayConfig struct {
	GateConfig gate.GateConfig
}

// DefaultReplayConfig returns the production gate configuration.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		GateConfig: gate.DefaultGateConfig(),
	}
}

// ReplayResult captures the outcome of replaying one scenario through the gate.
type ReplayResult struct {
	ID       string
	Expected gate.Verdict
	Decision gate.GateDecision // zero when the snapshot was rejected
	Rejected error             // non-nil when the snapshot was malformed
	Match    bool
}

// ReversalResult captures the outcome of replaying one reversal case.
type ReversalResult struct {
	ID       string
	Expected reversal.Decision
	Decision reversal.Decision
	Match    bool
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTransitions int
	Matches          int
	Mismatches       []string // scenario ids
	ByVerdict        map[gate.Verdict]int
	Rejected         int

	TotalReversals     int
	ReversalMatches    int
	ReversalMismatches []string
}

// #endregion types

// #region replay
// Replay runs every scenario through the scalar gate. Operates entirely in-memory.
func Replay(scenarios []Scenario, config ReplayConfig) ([]ReplayResult, error) {
	g, err := gate.NewGate(config.GateConfig)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	results := make([]ReplayResult, 0, len(scenarios))
	for _, sc := range scenarios {
		// 1. Snapshot precondition
		snap, err := state.NewSnapshot(sc.Snapshot)
		if err != nil {
			results = append(results, ReplayResult{
				ID:       sc.ID,
				Expected: sc.Expected,
				Rejected: err,
				Match:    sc.ExpectRejected,
			})
			continue
		}

		// 2. Gate
		d := g.Evaluate(snap, sc.Corridor, sc.Change)
		results = append(results, ReplayResult{
			ID:       sc.ID,
			Expected: sc.Expected,
			Decision: d,
			Match:    !sc.ExpectRejected && d.Verdict == sc.Expected,
		})
	}
	return results, nil
}

// ReplayReversals runs every case through the capability guard.
func ReplayReversals(cases []ReversalCase) []ReversalResult {
	results := make([]ReversalResult, 0, len(cases))
	for _, rc := range cases {
		d := reversal.Evaluate(rc.Context)
		results = append(results, ReversalResult{
			ID:       rc.ID,
			Expected: rc.Expected,
			Decision: d,
			Match:    d == rc.Expected,
		})
	}
	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult, reversals []ReversalResult) ReplaySummary {
	s := ReplaySummary{
		TotalTransitions: len(results),
		ByVerdict:        make(map[gate.Verdict]int),
		TotalReversals:   len(reversals),
	}
	for _, r := range results {
		if r.Rejected != nil {
			s.Rejected++
		} else {
			s.ByVerdict[r.Decision.Verdict]++
		}
		if r.Match {
			s.Matches++
		} else {
			s.Mismatches = append(s.Mismatches, r.ID)
		}
	}
	for _, r := range reversals {
		if r.Match {
			s.ReversalMatches++
		} else {
			s.ReversalMismatches = append(s.ReversalMismatches, r.ID)
		}
	}
	return s
}

// #endregion replay
