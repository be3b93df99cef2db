// Package report condenses the disorder series of a trace into a Profile and
// renders it for terminals (tables) or machines (JSON).
package report

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/disorder/pkg/alg/stats"
	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
)

// DefaultBins matches the bucket count of the published degree histograms.
const DefaultBins = 20

// Profile summarizes how out of order a trace is.
type Profile struct {
	// Count is the number of elements in the trace.
	Count int `json:"count"`
	// Inversions is the total number of out-of-order pairs (sum of degrees).
	Inversions int64 `json:"inversions"`
	// InOrder is the share of elements with degree zero, i.e. at or above the watermark.
	InOrder float64 `json:"in_order"`

	MaxDegree  int     `json:"max_degree"`
	MeanDegree float64 `json:"mean_degree"`
	P50Degree  float64 `json:"p50_degree"`
	P95Degree  float64 `json:"p95_degree"`
	P99Degree  float64 `json:"p99_degree"`

	MaxGap  int64   `json:"max_gap"`
	MeanGap float64 `json:"mean_gap"`
	P95Gap  float64 `json:"p95_gap"`

	// Histogram buckets the degrees into equal-width bins.
	Histogram []stats.Bin `json:"histogram"`
}

// Options controls profile construction.
type Options struct {
	// Bins is the histogram bucket count. Zero means DefaultBins.
	Bins int
	// Degree options are passed to disorder.Degrees.
	Degree []disorder.Option
}

// BuildProfile computes degrees and watermark gaps of values and summarizes them.
// An empty trace has no watermark and yields disorder.ErrInvalidInput.
func BuildProfile(values []int64, opts Options) (*Profile, error) {
	gaps, err := disorder.WatermarkGaps(values)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	ood := disorder.Degrees(values, opts.Degree...)

	return Summarize(ood, gaps, opts.Bins), nil
}

// Summarize builds a Profile from already computed degree and gap series of equal length.
func Summarize(ood []int, gaps []int64, bins int) *Profile {
	if bins <= 0 {
		bins = DefaultBins
	}

	sortedOOD := slices.Clone(ood)
	slices.Sort(sortedOOD)

	sortedGaps := slices.Clone(gaps)
	slices.Sort(sortedGaps)

	return &Profile{
		Count:      len(ood),
		Inversions: disorder.Inversions(ood),
		InOrder:    stats.Fraction(ood, func(d int) bool { return d == 0 }),
		MaxDegree:  stats.Max(ood),
		MeanDegree: stats.Mean(ood),
		P50Degree:  stats.SortedPercentile(sortedOOD, stats.PercentileMedian),
		P95Degree:  stats.SortedPercentile(sortedOOD, stats.PercentileP95),
		P99Degree:  stats.SortedPercentile(sortedOOD, stats.PercentileP99),
		MaxGap:     stats.Max(gaps),
		MeanGap:    stats.Mean(gaps),
		P95Gap:     stats.SortedPercentile(sortedGaps, stats.PercentileP95),
		Histogram:  stats.Histogram(ood, bins),
	}
}

// Verdict classifies a profile by its in-order share.
type Verdict string

// Verdicts, from best to worst.
const (
	VerdictOrdered   Verdict = "ordered"
	VerdictMostly    Verdict = "mostly ordered"
	VerdictDisorder  Verdict = "disordered"
	VerdictScrambled Verdict = "scrambled"
)

// In-order share thresholds for verdicts.
const (
	thresholdOrdered  = 1.0
	thresholdMostly   = 0.8
	thresholdDisorder = 0.5
)

// Verdict returns the classification of the profile.
func (p *Profile) Verdict() Verdict {
	switch {
	case p.InOrder >= thresholdOrdered:
		return VerdictOrdered
	case p.InOrder >= thresholdMostly:
		return VerdictMostly
	case p.InOrder >= thresholdDisorder:
		return VerdictDisorder
	default:
		return VerdictScrambled
	}
}
