package orchestrator

// #region imports
import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/biorail-gate/internal/config"
	"github.com/danielpatrickdp/biorail-gate/internal/diagnostic"
	"github.com/danielpatrickdp/biorail-gate/internal/gate"
	"github.com/danielpatrickdp/biorail-gate/internal/logging"
	"github.com/danielpatrickdp/biorail-gate/internal/projection"
	"github.com/danielpatrickdp/biorail-gate/internal/reversal"
	"github.com/danielpatrickdp/biorail-gate/internal/state"
)

// #endregion

const instrumentationName = "biorail.orchestrator"

// #region orchestrator-struct

// Orchestrator is the caller layer around the pure gates: it supplies the baseline
// corridor, re-evaluates downscaled changes, and logs, records and measures verdicts.
type Orchestrator struct {
	gate        *gate.Gate
	weights     projection.Weights
	observer    *diagnostic.Observer
	retry       *RetryEngine
	corridors   CorridorProvider
	concurrency int

	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer

	verdicts  metric.Int64Counter
	reversals metric.Int64Counter
	latency   metric.Float64Histogram
}

// Option customizes an Orchestrator.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	recorder       Recorder
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithRecorder sets the audit hand-off. Defaults to none.
func WithRecorder(r Recorder) Option { return func(o *options) { o.recorder = r } }

// WithTracerProvider sets the tracer provider. Defaults to the otel global.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the otel global.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// #endregion

// #region constructor

// NewOrchestrator creates a fully wired orchestrator from a validated config.
func NewOrchestrator(cfg config.Config, corridors CorridorProvider, opts ...Option) (*Orchestrator, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}
	if corridors == nil {
		return nil, fmt.Errorf("new orchestrator: nil corridor provider")
	}

	o := options{
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	g, err := gate.NewGate(gate.GateConfig{Weights: cfg.Weights})
	if err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}

	orch := &Orchestrator{
		gate:        g,
		weights:     cfg.Weights,
		observer:    diagnostic.NewObserver(cfg.Observer),
		retry:       NewRetryEngine(cfg.Orchestrator.MaxDownscaleRetries, cfg.Orchestrator.DownscaleFactor),
		corridors:   corridors,
		concurrency: cfg.Orchestrator.BatchConcurrency,
		logger:      o.logger,
		recorder:    o.recorder,
		tracer:      o.tracerProvider.Tracer(instrumentationName),
	}

	meter := o.meterProvider.Meter(instrumentationName)
	if orch.verdicts, err = meter.Int64Counter("biorail_gate_verdicts_total",
		metric.WithDescription("Scalar gate verdicts after downscale re-evaluation"),
	); err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}
	if orch.reversals, err = meter.Int64Counter("biorail_reversal_decisions_total",
		metric.WithDescription("Capability reversal guard decisions"),
	); err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}
	if orch.latency, err = meter.Float64Histogram("biorail_gate_evaluate_duration_seconds",
		metric.WithDescription("Duration of an orchestrated transition evaluation"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("new orchestrator: %w", err)
	}

	return orch, nil
}

// #endregion

// #region evaluate-transition

// EvaluateTransition runs the scalar gate on req. A Downscale verdict is re-run on a
// reduced change until it is allowed, becomes final, or retries run out.
// The only error is a malformed snapshot; verdicts are never errors.
func (o *Orchestrator) EvaluateTransition(ctx context.Context, req TransitionRequest) (TransitionResult, error) {
	start := time.Now()
	id := uuid.NewString()

	ctx, span := o.tracer.Start(ctx, "Orchestrator.EvaluateTransition",
		trace.WithAttributes(
			attribute.String("evaluation.id", id),
			attribute.String("site.id", req.Snapshot.SiteID),
		),
	)
	defer span.End()

	snap, err := state.NewSnapshot(req.Snapshot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed snapshot")
		return TransitionResult{EvaluationID: id}, fmt.Errorf("evaluate transition %s: %w", id, err)
	}

	base := o.corridors.BaselineCorridor()
	span.SetAttributes(attribute.String("corridor.zone", string(base.Zone())))

	var attempts []Attempt
	change := req.Change
	for {
		d := o.gate.Evaluate(snap, base, change)
		attempts = append(attempts, Attempt{Change: change, Decision: d})

		rec := logging.NewGateRecord(id, len(attempts)-1, snap, base, change, o.weights, d)
		logging.LogGateDecision(ctx, o.logger, rec)
		o.record(ctx, rec)

		retry, next := o.retry.ShouldRetry(attempts)
		if !retry {
			break
		}
		o.logger.DebugContext(ctx, "downscale re-evaluation",
			"evaluation_id", id,
			"attempt", len(attempts),
		)
		change = next
	}

	last := attempts[len(attempts)-1]
	result := TransitionResult{
		EvaluationID: id,
		Verdict:      last.Decision.Verdict,
		Accepted:     last.Decision.Verdict == gate.VerdictAllow,
		Change:       last.Change,
		Attempts:     attempts,
	}

	span.SetAttributes(
		attribute.String("gate.verdict", string(result.Verdict)),
		attribute.Int("gate.attempts", len(attempts)),
		attribute.Bool("gate.accepted", result.Accepted),
	)
	attrs := metric.WithAttributes(attribute.String("verdict", string(result.Verdict)))
	o.verdicts.Add(ctx, 1, attrs)
	o.latency.Record(ctx, time.Since(start).Seconds(), attrs)

	return result, nil
}

// #endregion

// #region evaluate-reversal

// EvaluateReversal runs the capability guard on rc.
func (o *Orchestrator) EvaluateReversal(ctx context.Context, rc reversal.Context) ReversalResult {
	id := uuid.NewString()

	ctx, span := o.tracer.Start(ctx, "Orchestrator.EvaluateReversal",
		trace.WithAttributes(
			attribute.String("evaluation.id", id),
			attribute.String("capability.before", rc.Before.String()),
			attribute.String("capability.after", rc.After.String()),
			attribute.Bool("capability.diagnostic_event", rc.DiagnosticEvent),
		),
	)
	defer span.End()

	d := reversal.Evaluate(rc)

	rec := logging.NewReversalRecord(id, rc, d)
	logging.LogReversalDecision(ctx, o.logger, rec)
	if o.recorder != nil {
		if err := o.recorder.RecordReversal(ctx, rec); err != nil {
			o.logger.ErrorContext(ctx, "record reversal failed", "evaluation_id", id, "error", err)
		}
	}

	span.SetAttributes(attribute.Bool("capability.allowed", d.Allowed))
	o.reversals.Add(ctx, 1, metric.WithAttributes(attribute.Bool("allowed", d.Allowed)))

	return ReversalResult{EvaluationID: id, Decision: d}
}

// #endregion

// #region evaluate-batch

// EvaluateBatch evaluates independent requests concurrently, bounded by the configured
// concurrency. Results are returned in input order. Cancelling ctx stops scheduling;
// the first error (a malformed snapshot or ctx.Err) is returned.
func (o *Orchestrator) EvaluateBatch(ctx context.Context, reqs []TransitionRequest) ([]TransitionResult, error) {
	results := make([]TransitionResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i := range reqs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := o.EvaluateTransition(gctx, reqs[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("evaluate batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("evaluate batch: %w", err)
	}
	return results, nil
}

// #endregion

// #region observe

// Observe runs the non-actuating observer. Its output never feeds a verdict.
func (o *Orchestrator) Observe(ctx context.Context, in diagnostic.Input) diagnostic.View {
	v := o.observer.Observe(in)
	o.logger.DebugContext(ctx, "observer labels",
		"capability", v.Capability.String(),
		"roh", v.RoH,
		"labels", v.Labels(),
	)
	return v
}

// ObserverReversal routes a capability change raised from the observer path
// through the guard. It is always denied.
func (o *Orchestrator) ObserverReversal(ctx context.Context, rc reversal.Context) ReversalResult {
	rc.DiagnosticEvent = true
	return o.EvaluateReversal(ctx, rc)
}

// #endregion

// #region helpers

func (o *Orchestrator) record(ctx context.Context, rec logging.GateRecord) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordGate(ctx, rec); err != nil {
		o.logger.ErrorContext(ctx, "record gate decision failed",
			"evaluation_id", rec.EvaluationID,
			"error", err,
		)
	}
}

// #endregion
