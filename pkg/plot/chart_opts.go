package plot

import (
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	dataZoomEndPercent = 100
	chartWidth         = "100%"
	chartHeight        = "480px"

	axisTypeValue    = "value"
	axisTypeCategory = "category"
	axisTypeLog      = "log"
)

// ChartOpts provides themed chart options.
type ChartOpts struct {
	theme ThemeConfig
}

// NewChartOpts creates a new ChartOpts with the given theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: GetThemeConfig(theme)}
}

// DefaultChartOpts returns chart options for the light theme.
func DefaultChartOpts() *ChartOpts {
	return NewChartOpts(ThemeLight)
}

// Theme returns the colors in use.
func (c *ChartOpts) Theme() ThemeConfig {
	return c.theme
}

// Init returns initialization options with themed background.
func (c *ChartOpts) Init() opts.Initialization {
	return opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: c.theme.Background,
	}
}

// Title returns title options with themed text colors.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.Text},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.TextMuted},
	}
}

// Legend returns legend options with themed text color.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Top:       "8%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.theme.TextMuted},
	}
}

// XAxis returns x-axis options of the given axis type.
func (c *ChartOpts) XAxis(name, axisType string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		Type:      axisType,
		AxisLabel: &opts.AxisLabel{Color: c.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.Axis}},
	}
}

// YAxis returns y-axis options; logScale switches to a base-10 logarithmic axis.
func (c *ChartOpts) YAxis(name string, logScale bool) opts.YAxis {
	axisType := axisTypeValue
	if logScale {
		axisType = axisTypeLog
	}

	return opts.YAxis{
		Name:      name,
		Type:      axisType,
		AxisLabel: &opts.AxisLabel{Color: c.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.Axis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.Grid},
		},
	}
}

// Grid returns grid options with standard margins.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "20%",
		Bottom:       "15%",
		Left:         "5%",
		Right:        "5%",
		ContainLabel: opts.Bool(true),
	}
}

// DataZoom returns standard data zoom options.
func (c *ChartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}
