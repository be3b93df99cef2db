package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	floatDigits   = 2
	percentScale  = 100
	histBarWidth  = 40
	histBarGlyph  = "█"
	jsonIndent    = "  "
	titleTemplate = "Disorder profile: %s"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// RenderOptions controls terminal rendering.
type RenderOptions struct {
	// Title names the trace in the heading.
	Title string
	// NoColor disables ANSI colors.
	NoColor bool
	// ShowHistogram appends the degree histogram table.
	ShowHistogram bool
}

// Render writes p in the requested format.
func Render(w io.Writer, p *Profile, format string, opts RenderOptions) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, p, opts)
	case FormatJSON:
		return RenderJSON(w, p)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// RenderJSON writes p as indented JSON.
func RenderJSON(w io.Writer, p *Profile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)

	err := enc.Encode(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	return nil
}

// RenderTable writes p as a terminal table followed by a colored verdict line.
func RenderTable(w io.Writer, p *Profile, opts RenderOptions) error {
	heading := newColor(opts.NoColor, color.Bold)

	var sb strings.Builder

	if opts.Title != "" {
		heading.Fprintf(&sb, titleTemplate+"\n", opts.Title)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Elements", humanize.Comma(int64(p.Count))},
		{"Inversions", humanize.Comma(p.Inversions)},
		{"In order", formatPercent(p.InOrder)},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"Max degree", humanize.Comma(int64(p.MaxDegree))},
		{"Mean degree", formatFloat(p.MeanDegree)},
		{"p50 degree", formatFloat(p.P50Degree)},
		{"p95 degree", formatFloat(p.P95Degree)},
		{"p99 degree", formatFloat(p.P99Degree)},
	})
	tbl.AppendSeparator()
	tbl.AppendRows([]table.Row{
		{"Max watermark gap", humanize.Comma(p.MaxGap)},
		{"Mean watermark gap", formatFloat(p.MeanGap)},
		{"p95 watermark gap", formatFloat(p.P95Gap)},
	})

	sb.WriteString(tbl.Render())
	sb.WriteString("\n")

	if opts.ShowHistogram && len(p.Histogram) > 0 {
		sb.WriteString(renderHistogram(p))
		sb.WriteString("\n")
	}

	verdict := p.Verdict()
	newColor(opts.NoColor, verdictColor(verdict)).Fprintf(&sb, "Verdict: %s\n", verdict)

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	return nil
}

func renderHistogram(p *Profile) string {
	peak := 0
	for _, b := range p.Histogram {
		peak = max(peak, b.Count)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Degree range", "Count", ""})

	for _, b := range p.Histogram {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat(histBarGlyph, b.Count*histBarWidth/peak)
		}

		tbl.AppendRow(table.Row{
			fmt.Sprintf("%s – %s", humanize.Comma(int64(b.Low)), humanize.Comma(int64(b.High))),
			humanize.Comma(int64(b.Count)),
			bar,
		})
	}

	return tbl.Render()
}

func newColor(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}

	return c
}

func verdictColor(v Verdict) color.Attribute {
	switch v {
	case VerdictOrdered, VerdictMostly:
		return color.FgGreen
	case VerdictDisorder:
		return color.FgYellow
	default:
		return color.FgRed
	}
}

func formatFloat(v float64) string {
	return humanize.CommafWithDigits(v, floatDigits)
}

func formatPercent(v float64) string {
	return humanize.FtoaWithDigits(v*percentScale, floatDigits) + "%"
}
