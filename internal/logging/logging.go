package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/danielpatrickdp/biorail-gate/internal/corridor"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
	"github.com/danielpatrickdp/biorail-gate/internal/update"
)

// #region logger
// NewLogger returns a tint-backed structured logger writing to w.
func NewLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !color,
	}))
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return l, nil
}

// #endregion logger

// #region records
// NewGateRecord assembles the audit record for one gate attempt.
func NewGateRecord(
	id string,
	attempt int,
	snap state.Snapshot,
	base corridor.Corridor,
	change update.ProposedChange,
	weights projection.Weights,
	d gate.GateDecision,
) GateRecord {
	return GateRecord{
		EvaluationID: id,
		SiteID:       snap.SiteID,
		Zone:         base.Zone(),
		Attempt:      attempt,
		Snapshot:     snap,
		Change:       change,
		Thresholds: GateRecordThresholds{
			BaselineMin: base.Min().Value(),
			BaselineMax: base.Max().Value(),
			TunedMin:    d.Corridor.Min().Value(),
			TunedMax:    d.Corridor.Max().Value(),
			Ceilings:    d.Ceilings,
			Stressed:    d.Stressed,
			Weights:     weights,
		},
		Verdict:       d.Verdict,
		Reason:        d.Reason,
		CurrentRisk:   d.CurrentRisk.Value(),
		PredictedRisk: d.PredictedRisk.Value(),
		Failed:        d.Failed,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewReversalRecord assembles the audit record for one guard evaluation.
func NewReversalRecord(id string, ctx reversal.Context, d reversal.Decision) ReversalRecord {
	return ReversalRecord{
		EvaluationID: id,
		Context:      ctx,
		Allowed:      d.Allowed,
		Reason:       d.Reason,
		CreatedAt:    time.Now().UTC(),
	}
}

// #endregion records

// #region log-decision
// LogGateDecision writes one line per gate attempt. Severity follows the verdict.
func LogGateDecision(ctx context.Context, logger *slog.Logger, rec GateRecord) {
	level := slog.LevelInfo
	switch rec.Verdict {
	case gate.VerdictDownscale, gate.VerdictBlock:
		level = slog.LevelWarn
	case gate.VerdictForceRepair:
		level = slog.LevelError
	}

	logger.LogAttrs(ctx, level, "gate decision",
		slog.String("evaluation_id", rec.EvaluationID),
		slog.String("site_id", rec.SiteID),
		slog.String("zone", string(rec.Zone)),
		slog.Int("attempt", rec.Attempt),
		slog.String("verdict", string(rec.Verdict)),
		slog.Float64("current_risk", rec.CurrentRisk),
		slog.Float64("predicted_risk", rec.PredictedRisk),
		slog.Bool("stressed", rec.Thresholds.Stressed),
		slog.String("reason", rec.Reason),
	)
}

// LogReversalDecision writes one line per guard evaluation. Denials log at warn.
func LogReversalDecision(ctx context.Context, logger *slog.Logger, rec ReversalRecord) {
	level := slog.LevelInfo
	if !rec.Allowed {
		level = slog.LevelWarn
	}

	logger.LogAttrs(ctx, level, "reversal decision",
		slog.String("evaluation_id", rec.EvaluationID),
		slog.String("before", rec.Context.Before.String()),
		slog.String("after", rec.Context.After.String()),
		slog.Float64("roh_before", rec.Context.RoHBefore.Value()),
		slog.Float64("roh_after", rec.Context.RoHAfter.Value()),
		slog.Bool("diagnostic_event", rec.Context.DiagnosticEvent),
		slog.Bool("allowed", rec.Allowed),
		slog.String("reason", rec.Reason),
	)
}

// #endregion log-decision
