package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	metricElements      = "disorder.elements"
	metricInversions    = "disorder.inversions"
	metricSampled       = "disorder.sampled"
	metricStageDuration = "disorder.stage.duration"
	metricStageErrors   = "disorder.stage.errors"

	attrStage = "stage"
)

// Stage names used for spans and metric attributes.
const (
	StageLoad       = "load"
	StageDegrees    = "degrees"
	StageWatermarks = "watermarks"
	StageSample     = "sample"
	StageProfile    = "profile"
	StageRender     = "render"
)

// durationBucketBoundaries covers 1ms to 600s: from small inline sequences
// to multi-hundred-million element traces.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// AnalysisMetrics holds the instruments recorded by disorder stages.
type AnalysisMetrics struct {
	elements      metric.Int64Counter
	inversions    metric.Int64Counter
	sampled       metric.Int64Counter
	stageDuration metric.Float64Histogram
	stageErrors   metric.Int64Counter
}

// NewAnalysisMetrics creates the analysis instruments from mt.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	elements, err := mt.Int64Counter(metricElements,
		metric.WithDescription("Sequence elements processed per stage"),
		metric.WithUnit("{element}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricElements, err)
	}

	inversions, err := mt.Int64Counter(metricInversions,
		metric.WithDescription("Out-of-order pairs found"),
		metric.WithUnit("{pair}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInversions, err)
	}

	sampled, err := mt.Int64Counter(metricSampled,
		metric.WithDescription("Points admitted by the threshold sampler"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSampled, err)
	}

	stageDuration, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	stageErrors, err := mt.Int64Counter(metricStageErrors,
		metric.WithDescription("Stages that ended with an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageErrors, err)
	}

	return &AnalysisMetrics{
		elements:      elements,
		inversions:    inversions,
		sampled:       sampled,
		stageDuration: stageDuration,
		stageErrors:   stageErrors,
	}, nil
}

// RecordInversions adds n out-of-order pairs. Safe on a nil receiver.
func (am *AnalysisMetrics) RecordInversions(ctx context.Context, n int64) {
	if am == nil {
		return
	}

	am.inversions.Add(ctx, n)
}

// RecordSampled adds n sampled points. Safe on a nil receiver.
func (am *AnalysisMetrics) RecordSampled(ctx context.Context, n int) {
	if am == nil {
		return
	}

	am.sampled.Add(ctx, int64(n))
}

func (am *AnalysisMetrics) recordStage(ctx context.Context, stage string, elements int, d time.Duration, failed bool) {
	if am == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrStage, stage))

	am.elements.Add(ctx, int64(elements), attrs)
	am.stageDuration.Record(ctx, d.Seconds(), attrs)

	if failed {
		am.stageErrors.Add(ctx, 1, attrs)
	}
}

// Stage is an in-flight pipeline stage: a span plus its duration measurement.
type Stage struct {
	span    trace.Span
	metrics *AnalysisMetrics
	name    string
	start   time.Time
}

// StartStage opens a span named "disorder.<stage>" and starts timing it.
// A nil tracer falls back to the span already in ctx (usually a no-op).
func StartStage(ctx context.Context, tracer trace.Tracer, am *AnalysisMetrics, stage string) (context.Context, *Stage) {
	var span trace.Span
	if tracer != nil {
		ctx, span = tracer.Start(ctx, "disorder."+stage)
	} else {
		span = trace.SpanFromContext(ctx)
	}

	return ctx, &Stage{span: span, metrics: am, name: stage, start: time.Now()}
}

// End records the processed element count and closes the span. A non-nil
// err marks the span failed. End returns err unchanged.
func (s *Stage) End(ctx context.Context, elements int, err error) error {
	s.span.SetAttributes(attribute.Int("disorder.elements", elements))

	if err != nil && !errors.Is(err, context.Canceled) {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}

	s.metrics.recordStage(ctx, s.name, elements, time.Since(s.start), err != nil)
	s.span.End()

	return err
}
