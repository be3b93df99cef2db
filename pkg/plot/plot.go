// Package plot renders disorder series as interactive go-echarts HTML charts:
// the degree histogram and sampled gap and degree scatter views.
package plot

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/disorder/pkg/alg/stats"
	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
)

// Sentinel errors.
var (
	ErrUnknownTheme = errors.New("unknown chart theme")
	ErrNoCharts     = errors.New("no charts to render")
)

const (
	// missingValue marks an absent data point; log axes cannot show zero.
	missingValue    = "-"
	binLabelDigits  = 1
	pointSymbolSize = 4
	areaOpacity     = 0.2
)

// Options controls the generated charts.
type Options struct {
	Theme Theme
	// LogScale puts the histogram frequency axis on a log10 scale.
	LogScale bool
	// Threshold highlights degrees above it in the scatter view.
	Threshold float64
}

// Series bundles the data of one trace for Dashboard.
type Series struct {
	Histogram []stats.Bin
	Gaps      []disorder.Point[int64]
	Degrees   []disorder.Point[int64]
}

// Dashboard builds every chart available for s. Empty series are skipped.
func Dashboard(s Series, o Options) []components.Charter {
	co := NewChartOpts(o.Theme)

	var result []components.Charter

	if len(s.Histogram) > 0 {
		result = append(result, BuildHistogram(co, s.Histogram, o.LogScale))
	}

	if len(s.Gaps) > 0 {
		result = append(result, BuildGapChart(co, s.Gaps))
	}

	if len(s.Degrees) > 0 {
		result = append(result, BuildDegreeScatter(co, s.Degrees, o.Threshold))
	}

	return result
}

// BuildHistogram renders histogram bins of out-of-order degrees as a bar chart.
// If co is nil, DefaultChartOpts() is used.
func BuildHistogram(co *ChartOpts, bins []stats.Bin, logScale bool) *charts.Bar {
	if co == nil {
		co = DefaultChartOpts()
	}

	subtitle := "linear frequency"
	if logScale {
		subtitle = "log10 frequency"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title("Out-of-order degree distribution", subtitle)),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithXAxisOpts(co.XAxis("degree", axisTypeCategory)),
		charts.WithYAxisOpts(co.YAxis("frequency", logScale)),
		charts.WithGridOpts(co.Grid()),
	)

	labels := make([]string, len(bins))
	data := make([]opts.BarData, len(bins))

	for i, b := range bins {
		labels[i] = binLabel(b)

		var value any = b.Count
		if logScale && b.Count == 0 {
			value = missingValue
		}

		data[i] = opts.BarData{Value: value}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("elements", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: co.Theme().Degree}))

	return bar
}

func binLabel(b stats.Bin) string {
	return humanize.FtoaWithDigits(b.Low, binLabelDigits) + "–" + humanize.FtoaWithDigits(b.High, binLabelDigits)
}

// BuildGapChart plots sampled watermark gaps against arrival index.
// If co is nil, DefaultChartOpts() is used.
func BuildGapChart(co *ChartOpts, points []disorder.Point[int64]) *charts.Line {
	if co == nil {
		co = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title("Watermark gap", humanize.Comma(int64(len(points)))+" sampled points")),
		charts.WithTooltipOpts(co.Tooltip("axis")),
		charts.WithDataZoomOpts(co.DataZoom()...),
		charts.WithXAxisOpts(co.XAxis("arrival index", axisTypeValue)),
		charts.WithYAxisOpts(co.YAxis("gap", false)),
		charts.WithGridOpts(co.Grid()),
	)

	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: []any{p.Index, p.Value}}
	}

	color := co.Theme().Gap
	line.AddSeries("gap", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(areaOpacity)}),
	)

	return line
}

// BuildDegreeScatter plots sampled out-of-order degrees against arrival index.
// Points above threshold form their own series. If co is nil, DefaultChartOpts() is used.
func BuildDegreeScatter(co *ChartOpts, points []disorder.Point[int64], threshold float64) *charts.Scatter {
	if co == nil {
		co = DefaultChartOpts()
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init()),
		charts.WithTitleOpts(co.Title("Out-of-order degree", humanize.Comma(int64(len(points)))+" sampled points")),
		charts.WithTooltipOpts(co.Tooltip("item")),
		charts.WithLegendOpts(co.Legend()),
		charts.WithDataZoomOpts(co.DataZoom()...),
		charts.WithXAxisOpts(co.XAxis("arrival index", axisTypeValue)),
		charts.WithYAxisOpts(co.YAxis("degree", false)),
		charts.WithGridOpts(co.Grid()),
	)

	var sampled, late []opts.ScatterData

	for _, p := range points {
		d := opts.ScatterData{Value: []any{p.Index, p.Value}, SymbolSize: pointSymbolSize}
		if float64(p.Value) > threshold {
			late = append(late, d)
		} else {
			sampled = append(sampled, d)
		}
	}

	theme := co.Theme()
	scatter.AddSeries("sampled", sampled, charts.WithItemStyleOpts(opts.ItemStyle{Color: theme.Degree}))
	scatter.AddSeries("above threshold", late, charts.WithItemStyleOpts(opts.ItemStyle{Color: theme.Late}))

	return scatter
}

// RenderPage writes charters as one self-contained HTML page.
func RenderPage(w io.Writer, title string, charters ...components.Charter) error {
	if len(charters) == 0 {
		return ErrNoCharts
	}

	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(charters...)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}
