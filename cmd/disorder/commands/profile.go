package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
	"github.com/Sumatoshi-tech/disorder/pkg/observability"
	"github.com/Sumatoshi-tech/disorder/pkg/plot"
	"github.com/Sumatoshi-tech/disorder/pkg/report"
)

// analysis holds every series derived from one trace.
type analysis struct {
	values  []int64
	ood     []int
	gaps    []int64
	profile *report.Profile
}

// analyze loads path and computes degrees, gaps and the profile.
func (a *App) analyze(ctx context.Context, cmd *cobra.Command, path string) (*analysis, error) {
	values, err := a.loadTrace(ctx, cmd, path)
	if err != nil {
		return nil, err
	}

	gaps, err := a.watermarks(ctx, values, true)
	if err != nil {
		return nil, err
	}

	ood := a.degrees(ctx, values)

	ctx, stage := observability.StartStage(ctx, a.Tracer, a.Metrics, observability.StageProfile)
	profile := report.Summarize(ood, gaps, a.Config.Plot.Bins)
	_ = stage.End(ctx, len(values), nil)

	return &analysis{values: values, ood: ood, gaps: gaps, profile: profile}, nil
}

// NewProfileCommand creates the profile summary command.
func NewProfileCommand(app *App) *cobra.Command {
	var (
		format    string
		bins      int
		histogram bool
		input     inputFlags
		degree    degreeFlags
	)

	cmd := &cobra.Command{
		Use:   "profile <trace>",
		Short: "Summarize the disorder of a trace",
		Long: `Summarize a trace: inversion count, in-order share, degree percentiles,
watermark gap statistics and a verdict. Use --format json for machine output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.applyOverrides(func(cfg *config.Config) {
				input.apply(cmd, &cfg.Input)
				degree.apply(cmd, &cfg.Degree)

				if cmd.Flags().Changed(flagBins) {
					cfg.Plot.Bins = bins
				}
			})
			if err != nil {
				return err
			}

			result, err := app.analyze(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			ctx, stage := observability.StartStage(cmd.Context(), app.Tracer, app.Metrics, observability.StageRender)

			err = report.Render(cmd.OutOrStdout(), result.profile, format, report.RenderOptions{
				Title:         filepath.Base(args[0]),
				NoColor:       app.colorDisabled(),
				ShowHistogram: histogram,
			})

			return stage.End(ctx, result.profile.Count, err)
		},
	}

	cmd.Flags().StringVar(&format, flagFormat, report.FormatTable, "Output format: table or json")
	cmd.Flags().IntVar(&bins, flagBins, report.DefaultBins, "Degree histogram bins")
	cmd.Flags().BoolVar(&histogram, "histogram", false, "Show the degree histogram table")
	input.register(cmd)
	degree.register(cmd)

	return cmd
}

// NewPlotCommand creates the HTML chart command.
func NewPlotCommand(app *App) *cobra.Command {
	var (
		output   string
		bins     int
		theme    string
		logScale bool
		title    string
		input    inputFlags
		degree   degreeFlags
		sampler  samplerFlags
	)

	cmd := &cobra.Command{
		Use:   "plot <trace>",
		Short: "Render the degree histogram and sampled series as HTML charts",
		Long: `Render an interactive HTML page with the degree histogram, the sampled
watermark gap series and the sampled degree scatter of a trace.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.applyOverrides(func(cfg *config.Config) {
				input.apply(cmd, &cfg.Input)
				degree.apply(cmd, &cfg.Degree)
				sampler.apply(cmd, &cfg.Sampler)

				flags := cmd.Flags()
				if flags.Changed(flagBins) {
					cfg.Plot.Bins = bins
				}

				if flags.Changed("theme") {
					cfg.Plot.Theme = theme
				}

				if flags.Changed("log-scale") {
					cfg.Plot.LogScale = logScale
				}

				if flags.Changed("title") {
					cfg.Plot.Title = title
				}
			})
			if err != nil {
				return err
			}

			chartTheme, err := plot.ParseTheme(app.Config.Plot.Theme)
			if err != nil {
				return err
			}

			result, err := app.analyze(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			series := plot.Series{
				Histogram: result.profile.Histogram,
				Gaps:      app.sample(cmd.Context(), result.gaps),
				Degrees:   app.sample(cmd.Context(), toInt64(result.ood)),
			}

			charters := plot.Dashboard(series, plot.Options{
				Theme:     chartTheme,
				LogScale:  app.Config.Plot.LogScale,
				Threshold: app.Config.Sampler.Threshold,
			})

			ctx, stage := observability.StartStage(cmd.Context(), app.Tracer, app.Metrics, observability.StageRender)

			err = writeOutput(cmd, output, func(w io.Writer) error {
				return plot.RenderPage(w, app.Config.Plot.Title, charters...)
			})

			err = stage.End(ctx, len(result.values), err)
			if err != nil {
				return err
			}

			app.Logger.InfoContext(ctx, "plot written", "path", output, "charts", len(charters))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, flagOutput, "o", "disorder.html", "Output HTML file (\"-\" for stdout)")
	cmd.Flags().IntVar(&bins, flagBins, report.DefaultBins, "Degree histogram bins")
	cmd.Flags().StringVar(&theme, "theme", string(plot.ThemeLight), "Chart theme: light or dark")
	cmd.Flags().BoolVar(&logScale, "log-scale", true, "Log10 frequency axis for the histogram")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	input.register(cmd)
	degree.register(cmd)
	sampler.register(cmd)

	return cmd
}
