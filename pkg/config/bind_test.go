package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
	"github.com/Sumatoshi-tech/disorder/pkg/trace"
)

func TestDegreeConfig_Options(t *testing.T) {
	t.Parallel()

	values := []int64{300, 1, 2, 125, 100, 303, 4, 9, 300}
	want := []int{0, 1, 1, 1, 2, 0, 4, 4, 1}

	for _, d := range []config.DegreeConfig{
		{Split: config.SplitMidpoint, ParallelCutoff: 1 << 14},
		{Split: config.SplitPowerOfTwo, Workers: 4, ParallelCutoff: 2},
	} {
		assert.Equal(t, want, disorder.Degrees(values, d.Options()...), "split %s", d.Split)
	}
}

func TestSamplerConfig_NewSampler(t *testing.T) {
	t.Parallel()

	s := config.SamplerConfig{P: 0.01, A: 1, Threshold: 5, Seed: 42}

	first := disorder.Sample(s.NewSampler(), []int64{0, 9, 0, 0, 7, 1})
	second := disorder.Sample(s.NewSampler(), []int64{0, 9, 0, 0, 7, 1})

	assert.Equal(t, first, second, "a fixed seed reproduces the sample")
	assert.InDelta(t, 0.02, s.NewSampler().Probability(9), 1e-9)

	random := config.SamplerConfig{P: 0, Threshold: 5}
	points := disorder.Sample(random.NewSampler(), []int64{0, 9, 0})
	assert.Equal(t, []disorder.Point[int64]{{Index: 1, Value: 9}}, points)
}

func TestInputConfig_TraceOptions(t *testing.T) {
	t.Parallel()

	in := config.InputConfig{Format: "csv", Column: "pickup", Unit: "ms", Location: "UTC"}

	opts, err := in.TraceOptions()
	require.NoError(t, err)

	assert.Equal(t, trace.FormatCSV, opts.Format)
	assert.Equal(t, "pickup", opts.Column)
	assert.Equal(t, trace.UnitMilliseconds, opts.Unit)
	assert.Equal(t, time.UTC, opts.Location)

	_, err = config.InputConfig{Format: "parquet", Unit: "s"}.TraceOptions()
	require.ErrorIs(t, err, trace.ErrUnknownFormat)

	_, err = config.InputConfig{Unit: "days"}.TraceOptions()
	require.ErrorIs(t, err, trace.ErrUnknownUnit)

	_, err = config.InputConfig{Unit: "s", Location: "Mars/Olympus"}.TraceOptions()
	require.Error(t, err)
}
