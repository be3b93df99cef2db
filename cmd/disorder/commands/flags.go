package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
)

// Flag names shared by several commands.
const (
	flagOutput    = "output"
	flagFormat    = "format"
	flagInput     = "input-format"
	flagColumn    = "column"
	flagLayout    = "layout"
	flagUnit      = "unit"
	flagLocation  = "location"
	flagSplit     = "split"
	flagWorkers   = "workers"
	flagP         = "probability"
	flagA         = "boost"
	flagThreshold = "threshold"
	flagSeed      = "seed"
	flagBins      = "bins"
)

// inputFlags override the input section of the config.
type inputFlags struct {
	format   string
	column   string
	layout   string
	unit     string
	location string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, flagInput, "", "Trace format: auto, csv, lines, block")
	cmd.Flags().StringVar(&f.column, flagColumn, "", "CSV timestamp column (default starttime)")
	cmd.Flags().StringVar(&f.layout, flagLayout, "", "Go time layout of the timestamp column")
	cmd.Flags().StringVar(&f.unit, flagUnit, "", "Timestamp unit: s, ms, us, ns")
	cmd.Flags().StringVar(&f.location, flagLocation, "", "Time zone for timestamps without one (e.g. America/New_York)")
}

func (f *inputFlags) apply(cmd *cobra.Command, in *config.InputConfig) {
	flags := cmd.Flags()

	if flags.Changed(flagInput) {
		in.Format = f.format
	}

	if flags.Changed(flagColumn) {
		in.Column = f.column
	}

	if flags.Changed(flagLayout) {
		in.Layout = f.layout
	}

	if flags.Changed(flagUnit) {
		in.Unit = f.unit
	}

	if flags.Changed(flagLocation) {
		in.Location = f.location
	}
}

// degreeFlags override the degree section of the config.
type degreeFlags struct {
	split   string
	workers int
}

func (f *degreeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.split, flagSplit, "", "Split strategy: midpoint or pow2")
	cmd.Flags().IntVar(&f.workers, flagWorkers, 0, "Parallel workers for degree counting (0 = GOMAXPROCS)")
}

func (f *degreeFlags) apply(cmd *cobra.Command, d *config.DegreeConfig) {
	if cmd.Flags().Changed(flagSplit) {
		d.Split = f.split
	}

	if cmd.Flags().Changed(flagWorkers) {
		d.Workers = f.workers
	}
}

// samplerFlags override the sampler section of the config.
type samplerFlags struct {
	p         float64
	a         float64
	threshold float64
	seed      uint64
}

func (f *samplerFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.p, flagP, "p", 0, "Base admission probability P")
	cmd.Flags().Float64VarP(&f.a, flagA, "a", 0, "Boost A scaling log10(value+1) in the admission probability")
	cmd.Flags().Float64Var(&f.threshold, flagThreshold, 0, "Values above this are always kept")
	cmd.Flags().Uint64Var(&f.seed, flagSeed, 0, "Random seed (0 = random)")
}

func (f *samplerFlags) apply(cmd *cobra.Command, s *config.SamplerConfig) {
	flags := cmd.Flags()

	if flags.Changed(flagP) {
		s.P = f.p
	}

	if flags.Changed(flagA) {
		s.A = f.a
	}

	if flags.Changed(flagThreshold) {
		s.Threshold = f.threshold
	}

	if flags.Changed(flagSeed) {
		s.Seed = f.seed
	}
}
