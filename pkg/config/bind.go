package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
	"github.com/Sumatoshi-tech/disorder/pkg/trace"
)

// Options converts the degree settings into disorder.Degrees options.
// Zero workers means GOMAXPROCS. Validate has already rejected unknown split names.
func (d DegreeConfig) Options() []disorder.Option {
	split := disorder.SplitMidpoint
	if d.Split == SplitPowerOfTwo {
		split = disorder.SplitPowerOfTwo
	}

	workers := d.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return []disorder.Option{
		disorder.WithSplitter(split),
		disorder.WithWorkers(workers),
		disorder.WithParallelCutoff(d.ParallelCutoff),
	}
}

// NewSampler builds a sampler from the settings. Seed 0 draws a random seed.
func (s SamplerConfig) NewSampler() *disorder.Sampler {
	if s.Seed == 0 {
		return disorder.NewSampler(s.P, s.A, s.Threshold, nil)
	}

	return disorder.NewSeededSampler(s.P, s.A, s.Threshold, s.Seed)
}

// TraceOptions converts the input settings into trace loading options.
func (in InputConfig) TraceOptions() (trace.Options, error) {
	format, err := trace.ParseFormat(in.Format)
	if err != nil {
		return trace.Options{}, err
	}

	unit, err := trace.ParseUnit(in.Unit)
	if err != nil {
		return trace.Options{}, err
	}

	opts := trace.Options{
		Format: format,
		Column: in.Column,
		Layout: in.Layout,
		Unit:   unit,
	}

	if in.Location != "" {
		loc, locErr := time.LoadLocation(in.Location)
		if locErr != nil {
			return trace.Options{}, fmt.Errorf("input location: %w", locErr)
		}

		opts.Location = loc
	}

	return opts, nil
}
