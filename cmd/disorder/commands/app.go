// Package commands implements the disorder CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
	"github.com/Sumatoshi-tech/disorder/pkg/observability"
	"github.com/Sumatoshi-tech/disorder/pkg/seqio"
	tracefile "github.com/Sumatoshi-tech/disorder/pkg/trace"
	"github.com/Sumatoshi-tech/disorder/pkg/version"
)

// annotationSkipSetup marks commands that run without config or telemetry.
const annotationSkipSetup = "disorder/skip-setup"

// Streams are the standard streams commands read from and write to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App holds the flags and runtime dependencies shared by all commands.
type App struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	LogJSON    bool

	Config  *config.Config
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.AnalysisMetrics

	shutdown func(context.Context) error
}

// Execute builds the command tree, runs it with args and releases telemetry.
func Execute(ctx context.Context, args []string, streams Streams) error {
	app := &App{}

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	err := root.ExecuteContext(ctx)

	return errors.Join(err, app.Close(context.Background()))
}

// setup loads configuration and starts telemetry for cmd.
func (a *App) setup(cmd *cobra.Command) error {
	if cmd.Annotations[annotationSkipSetup] == "true" {
		return nil
	}

	cfg, err := config.LoadConfig(a.ConfigPath)
	if err != nil {
		return err
	}

	a.Config = cfg

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.MetricsTextfile = cfg.Telemetry.MetricsTextfile
	obsCfg.LogLevel = a.logLevel()
	obsCfg.LogJSON = a.LogJSON || cfg.Logging.Format == "json"
	obsCfg.LogOutput = cmd.ErrOrStderr()

	if cmd.Name() == mcpCommandName {
		obsCfg.Mode = observability.ModeMCP
		obsCfg.LogJSON = true
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	a.shutdown = providers.Shutdown
	a.Logger = providers.Logger
	a.Tracer = providers.Tracer

	slog.SetDefault(providers.Logger)

	a.Metrics, err = observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	return nil
}

func (a *App) logLevel() slog.Level {
	switch {
	case a.Quiet:
		return slog.LevelError
	case a.Verbose:
		return slog.LevelDebug
	default:
		return observability.ParseLevel(a.Config.Logging.Level)
	}
}

// Close flushes telemetry. It is safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}

	shutdown := a.shutdown
	a.shutdown = nil

	err := shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown telemetry: %w", err)
	}

	return nil
}

// colorDisabled reports whether ANSI colors must be suppressed. fatih/color
// already honors NO_COLOR and non-terminal output through color.NoColor.
func (a *App) colorDisabled() bool {
	return a.NoColor || color.NoColor
}

// loadTrace reads the sequence at path ("-" reads the command input) inside a load stage.
func (a *App) loadTrace(ctx context.Context, cmd *cobra.Command, path string) ([]int64, error) {
	opts, err := a.Config.Input.TraceOptions()
	if err != nil {
		return nil, err
	}

	ctx, stage := observability.StartStage(ctx, a.Tracer, a.Metrics, observability.StageLoad)

	var values []int64
	if path == seqio.StdioPath {
		values, err = tracefile.Load(cmd.InOrStdin(), opts)
	} else {
		values, err = tracefile.LoadFile(path, opts)
	}

	return values, stage.End(ctx, len(values), err)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// openOutput opens path for writing; empty or "-" writes to the command output.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == seqio.StdioPath {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}

	return seqio.Create(path)
}

// writeOutput opens path, runs write and closes the output, joining both errors.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	w, err := openOutput(cmd, path)
	if err != nil {
		return err
	}

	return errors.Join(write(w), w.Close())
}
