package config

// Input defaults.
const (
	DefaultInputFormat = "auto"
	DefaultInputColumn = "starttime"
	DefaultInputUnit   = "s"
)

// Degree defaults. Zero workers means GOMAXPROCS.
const (
	DefaultDegreeSplit          = SplitMidpoint
	DefaultDegreeWorkers        = 0
	DefaultDegreeParallelCutoff = 1 << 14
)

// Sampler defaults.
const (
	DefaultSamplerP         = 0.01
	DefaultSamplerA         = 1.0
	DefaultSamplerThreshold = 1000.0
	DefaultSamplerSeed      = 0
)

// Plot defaults.
const (
	DefaultPlotBins     = 20
	DefaultPlotTheme    = "light"
	DefaultPlotLogScale = true
	DefaultPlotTitle    = "disorder"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)
