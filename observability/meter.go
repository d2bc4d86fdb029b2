package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TurnMetrics holds the speech-turn instruments.
type TurnMetrics struct {
	turns         metric.Int64Counter
	stageDuration metric.Float64Histogram
	deferredJobs  metric.Int64Counter
	ttsFailures   metric.Int64Counter
	heuristicHits metric.Int64Counter
}

// NewTurnMetrics creates the instruments on meter. A nil meter uses the
// global provider.
func NewTurnMetrics(meter metric.Meter) (*TurnMetrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	turns, err := meter.Int64Counter("speechturn.turns",
		metric.WithDescription("Speech turns by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating speechturn.turns counter: %w", err)
	}
	stageDuration, err := meter.Float64Histogram("speechturn.stage.duration",
		metric.WithDescription("Pipeline stage latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating speechturn.stage.duration histogram: %w", err)
	}
	deferredJobs, err := meter.Int64Counter("speechturn.audio_jobs",
		metric.WithDescription("Deferred audio jobs by final status"))
	if err != nil {
		return nil, fmt.Errorf("creating speechturn.audio_jobs counter: %w", err)
	}
	ttsFailures, err := meter.Int64Counter("speechturn.tts.failures",
		metric.WithDescription("Synthesis failures degraded to text-only responses"))
	if err != nil {
		return nil, fmt.Errorf("creating speechturn.tts.failures counter: %w", err)
	}
	heuristicHits, err := meter.Int64Counter("speechturn.heuristic.hits",
		metric.WithDescription("Turns interpreted without a generation call"))
	if err != nil {
		return nil, fmt.Errorf("creating speechturn.heuristic.hits counter: %w", err)
	}

	return &TurnMetrics{
		turns:         turns,
		stageDuration: stageDuration,
		deferredJobs:  deferredJobs,
		ttsFailures:   ttsFailures,
		heuristicHits: heuristicHits,
	}, nil
}

// RecordTurn counts a finished turn. outcome is completed, deferred or failed.
func (m *TurnMetrics) RecordTurn(ctx context.Context, outcome, intent string) {
	if m == nil {
		return
	}
	m.turns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("intent", intent),
	))
}

// RecordStage records the latency of one pipeline stage.
func (m *TurnMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordJob counts a deferred job reaching its terminal status.
func (m *TurnMetrics) RecordJob(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.deferredJobs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordTTSFailure counts a synthesis failure.
func (m *TurnMetrics) RecordTTSFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.ttsFailures.Add(ctx, 1)
}

// RecordHeuristicHit counts a turn that skipped the generation call.
func (m *TurnMetrics) RecordHeuristicHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.heuristicHits.Add(ctx, 1)
}
