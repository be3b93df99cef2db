package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
	"github.com/Sumatoshi-tech/disorder/pkg/observability"
	"github.com/Sumatoshi-tech/disorder/pkg/seqio"
)

// Sampled series names.
const (
	seriesOOD = "ood"
	seriesGap = "gap"
)

// ErrUnknownSeries is returned for a --series other than ood or gap.
var ErrUnknownSeries = errors.New("unknown series")

// applyOverrides lets fn patch the loaded config with flag values and revalidates it.
func (a *App) applyOverrides(fn func(cfg *config.Config)) error {
	fn(a.Config)

	err := a.Config.Validate()
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return nil
}

// degrees computes the out-of-order degrees of values inside a stage.
func (a *App) degrees(ctx context.Context, values []int64) []int {
	ctx, stage := observability.StartStage(ctx, a.Tracer, a.Metrics, observability.StageDegrees)

	ood := disorder.Degrees(values, a.Config.Degree.Options()...)
	inversions := disorder.Inversions(ood)

	_ = stage.End(ctx, len(values), nil)

	a.Metrics.RecordInversions(ctx, inversions)
	a.Logger.InfoContext(ctx, "degrees computed",
		"values", humanize.Comma(int64(len(values))),
		"inversions", humanize.Comma(inversions))

	return ood
}

// watermarks computes the watermark series (or gaps) of values inside a stage.
func (a *App) watermarks(ctx context.Context, values []int64, gap bool) ([]int64, error) {
	ctx, stage := observability.StartStage(ctx, a.Tracer, a.Metrics, observability.StageWatermarks)

	var (
		out []int64
		err error
	)

	if gap {
		out, err = disorder.WatermarkGaps(values)
	} else {
		out, err = disorder.Watermarks(values)
	}

	return out, stage.End(ctx, len(values), err)
}

// sample thins series with the configured sampler inside a stage.
func (a *App) sample(ctx context.Context, series []int64) []disorder.Point[int64] {
	ctx, stage := observability.StartStage(ctx, a.Tracer, a.Metrics, observability.StageSample)

	points := disorder.Sample(a.Config.Sampler.NewSampler(), series)

	_ = stage.End(ctx, len(series), nil)

	a.Metrics.RecordSampled(ctx, len(points))
	a.Logger.InfoContext(ctx, "series sampled",
		"values", humanize.Comma(int64(len(series))),
		"kept", humanize.Comma(int64(len(points))))

	return points
}

func toInt64(ood []int) []int64 {
	out := make([]int64, len(ood))
	for i, d := range ood {
		out[i] = int64(d)
	}

	return out
}

// NewOODCommand creates the out-of-order degree command.
func NewOODCommand(app *App) *cobra.Command {
	var (
		output string
		input  inputFlags
		degree degreeFlags
	)

	cmd := &cobra.Command{
		Use:   "ood <trace>",
		Short: "Compute the out-of-order degree of every element",
		Long: `Compute, for every element of the trace, how many earlier elements are
strictly greater. Degrees are written one per line in input order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.applyOverrides(func(cfg *config.Config) {
				input.apply(cmd, &cfg.Input)
				degree.apply(cmd, &cfg.Degree)
			})
			if err != nil {
				return err
			}

			values, err := app.loadTrace(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			ood := app.degrees(cmd.Context(), values)

			return writeOutput(cmd, output, func(w io.Writer) error {
				return seqio.WriteInts(w, ood)
			})
		},
	}

	cmd.Flags().StringVarP(&output, flagOutput, "o", seqio.StdioPath, "Output file (\"-\" for stdout, \".lz4\" compresses)")
	input.register(cmd)
	degree.register(cmd)

	return cmd
}

// NewWatermarkCommand creates the watermark command.
func NewWatermarkCommand(app *App) *cobra.Command {
	var (
		output string
		gap    bool
		packed bool
		input  inputFlags
	)

	cmd := &cobra.Command{
		Use:   "watermark <trace>",
		Short: "Compute the running watermark or watermark gap",
		Long: `Compute the watermark (running maximum) of the trace, or with --gap the
distance of every element below the watermark. With --packed the series is
written as a compressed block that can be loaded back as a trace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.applyOverrides(func(cfg *config.Config) {
				input.apply(cmd, &cfg.Input)
			})
			if err != nil {
				return err
			}

			values, err := app.loadTrace(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			series, err := app.watermarks(cmd.Context(), values, gap)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, func(w io.Writer) error {
				if packed {
					return seqio.PackBlock(w, series)
				}

				return seqio.WriteInts(w, series)
			})
		},
	}

	cmd.Flags().StringVarP(&output, flagOutput, "o", seqio.StdioPath, "Output file (\"-\" for stdout, \".lz4\" compresses)")
	cmd.Flags().BoolVar(&gap, "gap", false, "Write watermark gaps instead of watermarks")
	cmd.Flags().BoolVar(&packed, "packed", false, "Write a packed block instead of text")
	input.register(cmd)

	return cmd
}

// NewSampleCommand creates the threshold sampling command.
func NewSampleCommand(app *App) *cobra.Command {
	var (
		output  string
		series  string
		input   inputFlags
		degree  degreeFlags
		sampler samplerFlags
	)

	cmd := &cobra.Command{
		Use:   "sample <trace>",
		Short: "Sample the degree or gap series for plotting",
		Long: `Compute the degree (--series ood) or watermark gap (--series gap) series
and keep each element with probability P*(1+A*log10(value+1)); values above
the threshold are always kept. Kept points are written as "index value".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if series != seriesOOD && series != seriesGap {
				return fmt.Errorf("%w: %q", ErrUnknownSeries, series)
			}

			err := app.applyOverrides(func(cfg *config.Config) {
				input.apply(cmd, &cfg.Input)
				degree.apply(cmd, &cfg.Degree)
				sampler.apply(cmd, &cfg.Sampler)
			})
			if err != nil {
				return err
			}

			values, err := app.loadTrace(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			var data []int64
			if series == seriesOOD {
				data = toInt64(app.degrees(cmd.Context(), values))
			} else {
				data, err = app.watermarks(cmd.Context(), values, true)
				if err != nil {
					return err
				}
			}

			points := app.sample(cmd.Context(), data)

			return writeOutput(cmd, output, func(w io.Writer) error {
				return seqio.WritePoints(w, points)
			})
		},
	}

	cmd.Flags().StringVarP(&output, flagOutput, "o", seqio.StdioPath, "Output file (\"-\" for stdout, \".lz4\" compresses)")
	cmd.Flags().StringVar(&series, "series", seriesOOD, "Series to sample: ood or gap")
	input.register(cmd)
	degree.register(cmd)
	sampler.register(cmd)

	return cmd
}
