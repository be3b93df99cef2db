package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
	"github.com/Sumatoshi-tech/disorder/pkg/report"
)

// Tool names.
const (
	ToolNameDegrees    = "disorder_degrees"
	ToolNameWatermarks = "disorder_watermarks"
	ToolNameSample     = "disorder_sample"
	ToolNameProfile    = "disorder_profile"
)

// MaxInputValues bounds the length of an inline sequence.
const MaxInputValues = 1 << 20

// Sample series names.
const (
	SeriesDegrees = "ood"
	SeriesGaps    = "gap"
)

// Sentinel errors for tool input validation.
var (
	ErrTooManyValues = errors.New("too many values")
	ErrUnknownSeries = errors.New("series must be \"ood\" or \"gap\"")
)

// SequenceInput is the input of tools that only take a sequence.
type SequenceInput struct {
	Values []int64 `json:"values" jsonschema:"arrival sequence, e.g. epoch timestamps in arrival order"`
}

func (in SequenceInput) size() int { return len(in.Values) }

// WatermarksInput is the input schema for the disorder_watermarks tool.
type WatermarksInput struct {
	Values []int64 `json:"values"        jsonschema:"arrival sequence"`
	Gap    bool    `json:"gap,omitempty" jsonschema:"return watermark minus value instead of the watermark"`
}

func (in WatermarksInput) size() int { return len(in.Values) }

// SampleInput is the input schema for the disorder_sample tool. Omitted
// parameters use the server's configured sampler defaults.
type SampleInput struct {
	Values    []int64  `json:"values"              jsonschema:"arrival sequence"`
	Series    string   `json:"series,omitempty"    jsonschema:"series to sample: ood (default) or gap"`
	P         *float64 `json:"p,omitempty"         jsonschema:"base admission probability"`
	A         *float64 `json:"a,omitempty"         jsonschema:"log10 boost factor"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"values above this are always kept"`
	Seed      *uint64  `json:"seed,omitempty"      jsonschema:"random seed; 0 or omitted draws one"`
}

func (in SampleInput) size() int { return len(in.Values) }

// ProfileInput is the input schema for the disorder_profile tool.
type ProfileInput struct {
	Values []int64 `json:"values"         jsonschema:"arrival sequence"`
	Bins   int     `json:"bins,omitempty" jsonschema:"histogram bucket count (default 20)"`
}

func (in ProfileInput) size() int { return len(in.Values) }

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// DegreesResult is the payload of disorder_degrees.
type DegreesResult struct {
	OOD        []int `json:"ood"`
	Inversions int64 `json:"inversions"`
}

// SeriesResult is the payload of disorder_watermarks.
type SeriesResult struct {
	Series string  `json:"series"`
	Values []int64 `json:"values"`
}

// SampleResult is the payload of disorder_sample.
type SampleResult struct {
	Series string                  `json:"series"`
	Points []disorder.Point[int64] `json:"points"`
}

func (s *Server) handleDegrees(
	ctx context.Context, _ *mcpsdk.CallToolRequest, in SequenceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateValues(in.Values)
	if err != nil {
		return errorResult(err)
	}

	ood := disorder.Degrees(in.Values, s.cfg.Degree.Options()...)
	inversions := disorder.Inversions(ood)

	s.metrics.RecordInversions(ctx, inversions)

	return jsonResult(DegreesResult{OOD: ood, Inversions: inversions})
}

func (s *Server) handleWatermarks(
	_ context.Context, _ *mcpsdk.CallToolRequest, in WatermarksInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateValues(in.Values)
	if err != nil {
		return errorResult(err)
	}

	series, compute := "watermark", disorder.Watermarks[int64]
	if in.Gap {
		series, compute = SeriesGaps, disorder.WatermarkGaps[int64]
	}

	values, err := compute(in.Values)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(SeriesResult{Series: series, Values: values})
}

func (s *Server) handleSample(
	ctx context.Context, _ *mcpsdk.CallToolRequest, in SampleInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateValues(in.Values)
	if err != nil {
		return errorResult(err)
	}

	settings := s.cfg.Sampler
	if in.P != nil {
		settings.P = *in.P
	}

	if in.A != nil {
		settings.A = *in.A
	}

	if in.Threshold != nil {
		settings.Threshold = *in.Threshold
	}

	if in.Seed != nil {
		settings.Seed = *in.Seed
	}

	var series []int64

	switch in.Series {
	case SeriesDegrees, "":
		series = toInt64(disorder.Degrees(in.Values, s.cfg.Degree.Options()...))
		in.Series = SeriesDegrees
	case SeriesGaps:
		series, err = disorder.WatermarkGaps(in.Values)
		if err != nil {
			return errorResult(err)
		}
	default:
		return errorResult(fmt.Errorf("%w: %q", ErrUnknownSeries, in.Series))
	}

	points := disorder.Sample(settings.NewSampler(), series)
	s.metrics.RecordSampled(ctx, len(points))

	return jsonResult(SampleResult{Series: in.Series, Points: points})
}

func (s *Server) handleProfile(
	ctx context.Context, _ *mcpsdk.CallToolRequest, in ProfileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateValues(in.Values)
	if err != nil {
		return errorResult(err)
	}

	profile, err := report.BuildProfile(in.Values, report.Options{Bins: in.Bins, Degree: s.cfg.Degree.Options()})
	if err != nil {
		return errorResult(err)
	}

	s.metrics.RecordInversions(ctx, profile.Inversions)

	return jsonResult(profile)
}

func validateValues(values []int64) error {
	if len(values) > MaxInputValues {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyValues, len(values), MaxInputValues)
	}

	return nil
}

func toInt64(ood []int) []int64 {
	out := make([]int64, len(ood))
	for i, d := range ood {
		out[i] = int64(d)
	}

	return out
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}

const (
	degreesToolDescription = "Compute the out-of-order degree of every element of a sequence: " +
		"the number of earlier elements strictly greater than it. Returns the degrees and their sum."

	watermarksToolDescription = "Compute the running maximum (watermark) of a sequence, " +
		"or with gap=true how far each element trails the watermark."

	sampleToolDescription = "Threshold-sample the out-of-order degree or watermark gap series. " +
		"Each point is kept with probability p*(1+a*log10(d+1)) or always when above threshold."

	profileToolDescription = "Summarize how out of order a sequence is: inversions, in-order share, " +
		"degree percentiles, watermark gaps and a degree histogram."
)
