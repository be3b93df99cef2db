// Package mcp exposes disorder analyses as Model Context Protocol tools over
// stdio, operating on sequences passed inline by the client.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/disorder/pkg/config"
	"github.com/Sumatoshi-tech/disorder/pkg/observability"
	"github.com/Sumatoshi-tech/disorder/pkg/version"
)

const (
	serverName     = "disorder"
	toolSpanPrefix = "mcp."
	traceIDMetaKey = "trace_id"
)

var errToolFailed = errors.New("tool returned an error result")

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger
	// Metrics records per-tool stage metrics. Nil disables them.
	Metrics *observability.AnalysisMetrics
	// Tracer creates a span per tool call. Nil disables tracing.
	Tracer trace.Tracer
	// Config supplies degree options and sampler defaults. Nil uses config.Default().
	Config *config.Config
}

// Server wraps the MCP SDK server with the disorder tools.
type Server struct {
	inner   *mcpsdk.Server
	tools   []string
	logger  *slog.Logger
	metrics *observability.AnalysisMetrics
	tracer  trace.Tracer
	cfg     *config.Config
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{Name: serverName, Version: version.Version},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{
		inner:   inner,
		logger:  logger,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		cfg:     cfg,
	}

	addTool(srv, ToolNameDegrees, degreesToolDescription, srv.handleDegrees)
	addTool(srv, ToolNameWatermarks, watermarksToolDescription, srv.handleWatermarks)
	addTool(srv, ToolNameSample, sampleToolDescription, srv.handleSample)
	addTool(srv, ToolNameProfile, profileToolDescription, srv.handleProfile)

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	names := slices.Clone(s.tools)
	slices.Sort(names)

	return names
}

// Run serves MCP over stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves MCP over transport until ctx is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// sized inputs report how many sequence elements a call carries.
type sized interface {
	size() int
}

type toolHandler[In sized] func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

func addTool[In sized](s *Server, name, description string, handler toolHandler[In]) {
	tool := &mcpsdk.Tool{Name: name, Description: description}

	mcpsdk.AddTool(s.inner, tool, mcpsdk.ToolHandlerFor[In, ToolOutput](instrument(s, name, handler)))

	s.tools = append(s.tools, name)
}

// instrument runs handler inside a stage span, records stage metrics, and
// appends the trace ID to the result when the span is sampled.
func instrument[In sized](s *Server, name string, handler toolHandler[In]) toolHandler[In] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, stage := observability.StartStage(ctx, s.tracer, s.metrics, toolSpanPrefix+name)

		s.logger.DebugContext(ctx, "mcp tool call", "tool", name, "values", in.size())

		result, out, err := handler(ctx, req, in)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errToolFailed
		}

		_ = stage.End(ctx, in.size(), failure)

		if sc := trace.SpanContextFromContext(ctx); sc.IsSampled() && result != nil {
			result.Content = append(result.Content, &mcpsdk.TextContent{
				Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID()),
			})
		}

		return result, out, err
	}
}
