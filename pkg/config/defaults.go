package config

// Input defaults.
const (
	DefaultInputColumn = 1
)

// Output defaults.
const (
	DefaultOutputDirectory = "."
	DefaultOutputFormat    = FormatText
	DefaultOutputNoColor   = false
)

// Chart defaults.
const (
	DefaultChartEnabled = true
	DefaultChartHTML    = false
	DefaultChartWidth   = 1280
	DefaultChartHeight  = 720
)

// Frequency defaults. A negative precision groups by exact value.
const (
	DefaultFrequencyPrecision = -1
	MaxFrequencyPrecision     = 15
)

// Pipeline defaults.
const (
	DefaultPipelineWorkers = 4
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "warn"
	DefaultLoggingFormat = LogFormatText
)
