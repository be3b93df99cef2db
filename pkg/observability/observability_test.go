package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/disorder/pkg/observability"
)

func TestInit_NoopWhenNothingConfigured(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.Nil(t, providers.Registry)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_WritesMetricsTextfileOnShutdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "disorder.prom")

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = "1.2.3"
	cfg.MetricsTextfile = path

	providers, err := observability.Init(cfg)
	require.NoError(t, err)
	require.NotNil(t, providers.Registry)

	metrics, err := observability.NewAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	ctx, stage := observability.StartStage(context.Background(), providers.Tracer, metrics, observability.StageDegrees)
	metrics.RecordInversions(ctx, 14)
	require.NoError(t, stage.End(ctx, 9, nil))

	require.NoError(t, providers.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "disorder_elements")
	assert.Contains(t, text, "disorder_inversions")
	assert.Contains(t, text, `stage="degrees"`)
}

func TestNewLogger_JSONWithIdentity(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogOutput = &buf
	cfg.Environment = "test"
	cfg.Mode = observability.ModeMCP

	observability.NewLogger(cfg).Info("hello", "values", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "disorder", record[observability.LogKeyService])
	assert.Equal(t, "mcp", record[observability.LogKeyMode])
	assert.Equal(t, "test", record[observability.LogKeyEnv])
	assert.NotContains(t, record, observability.LogKeyTraceID)
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &buf
	cfg.LogLevel = slog.LevelWarn

	logger := observability.NewLogger(cfg)
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewTracingHandler(inner, "svc", "", observability.ModeCLI))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.WithGroup("stage").InfoContext(ctx, "done", "name", "degrees")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "svc", record[observability.LogKeyService], "identity stays outside groups")
	assert.NotContains(t, record, observability.LogKeyEnv)

	group, ok := record["stage"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "degrees", group["name"])
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", group[observability.LogKeyTraceID])
	assert.Equal(t, "0102030405060708", group[observability.LogKeySpanID])
}

func TestStage_RecordsSpanAndMetrics(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewAnalysisMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	failure := errors.New("boom")

	_, stage := observability.StartStage(ctx, tp.Tracer("test"), metrics, observability.StageLoad)
	require.ErrorIs(t, stage.End(ctx, 5, failure), failure)

	_, stage = observability.StartStage(ctx, tp.Tracer("test"), metrics, observability.StageSample)
	metrics.RecordSampled(ctx, 2)
	require.NoError(t, stage.End(ctx, 7, nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "disorder.load", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "disorder.sample", spans[1].Name())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(12), sums["disorder.elements"])
	assert.Equal(t, int64(2), sums["disorder.sampled"])
	assert.Equal(t, int64(1), sums["disorder.stage.errors"])
}

func TestAnalysisMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var metrics *observability.AnalysisMetrics

	ctx, stage := observability.StartStage(context.Background(), nil, metrics, observability.StageRender)
	metrics.RecordInversions(ctx, 1)
	metrics.RecordSampled(ctx, 1)
	require.NoError(t, stage.End(ctx, 0, nil))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel("chatty"))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("novalue,=x"))
	assert.Equal(t,
		map[string]string{"api-key": "secret", "tenant": "a"},
		observability.ParseOTLPHeaders(" api-key = secret ,tenant=a"),
	)
}
