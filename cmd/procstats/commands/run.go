// Package commands implements CLI command handlers for procstats.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/procstats/pkg/chart"
	"github.com/Sumatoshi-tech/procstats/pkg/config"
	"github.com/Sumatoshi-tech/procstats/pkg/measurements"
	"github.com/Sumatoshi-tech/procstats/pkg/observability"
	"github.com/Sumatoshi-tech/procstats/pkg/pipeline"
	"github.com/Sumatoshi-tech/procstats/pkg/report"
	"github.com/Sumatoshi-tech/procstats/pkg/safeconv"
	"github.com/Sumatoshi-tech/procstats/pkg/sampling"
	"github.com/Sumatoshi-tech/procstats/pkg/version"
)

var (
	// ErrNoInput is returned when no input file is given.
	ErrNoInput = errors.New("no input file specified")
	// ErrOutputDir indicates the chart output directory is missing or not a directory.
	ErrOutputDir = errors.New("output directory unusable")
)

// Flag names shared by the root and run commands.
const (
	flagConfig          = "config"
	flagOutputDirectory = "output-directory"
	flagFormat          = "format"
	flagNoPlot          = "no-plot"
	flagHTML            = "html"
	flagPrecision       = "precision"
	flagWorkers         = "workers"
	flagColumn          = "column"
	flagNoColor         = "no-color"
	flagDebugTrace      = "debug-trace"
)

type telemetryInit func(cfg observability.Config) (observability.Providers, error)

func defaultTelemetry(cfg observability.Config) (observability.Providers, error) {
	return observability.Init(cfg)
}

// RunCommand holds flags and dependencies for processing one measurement file.
type RunCommand struct {
	configPath string
	outputDir  string
	format     string
	noPlot     bool
	html       bool
	noColor    bool
	precision  int
	workers    int
	column     int
	debugTrace bool

	initTelemetry telemetryInit
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input.csv>",
		Short: "Process a measurement file",
		Long: `Read the measurement column of a CSV file (header row first) and print
statistics for the full population and the every-2nd, every-5th and
every-5th-from-2nd samples. A frequency polygon is written per sample.`,
	}

	newRunCommandWithDeps(defaultTelemetry).bind(cmd)

	return cmd
}

func newRunCommandWithDeps(initTelemetry telemetryInit) *RunCommand {
	return &RunCommand{initTelemetry: initTelemetry}
}

// bind registers the run flags on cmd and makes rc its handler.
func (rc *RunCommand) bind(cmd *cobra.Command) {
	cmd.Args = cobra.MaximumNArgs(1)
	cmd.RunE = rc.run

	flags := cmd.Flags()
	flags.StringVar(&rc.configPath, flagConfig, "", "Config file (default: procstats.yaml in ., ./config, ~/.config/procstats)")
	flags.StringVarP(&rc.outputDir, flagOutputDirectory, "d", config.DefaultOutputDirectory, "Directory charts are written to")
	flags.StringVar(&rc.format, flagFormat, config.DefaultOutputFormat, "Output format: text, table, json, yaml")
	flags.BoolVar(&rc.noPlot, flagNoPlot, false, "Do not write frequency polygons")
	flags.BoolVar(&rc.html, flagHTML, false, "Also write interactive HTML charts")
	flags.IntVar(&rc.precision, flagPrecision, config.DefaultFrequencyPrecision,
		"Decimal digits values are rounded to before counting frequencies (-1 = exact)")
	flags.IntVar(&rc.workers, flagWorkers, config.DefaultPipelineWorkers, "Sample pipelines run in parallel")
	flags.IntVar(&rc.column, flagColumn, config.DefaultInputColumn, "0-based CSV field holding the measurement")
	flags.BoolVar(&rc.noColor, flagNoColor, false, "Disable colored output")
	flags.BoolVar(&rc.debugTrace, flagDebugTrace, false, "Sample every trace")
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return ErrNoInput
	}

	inputPath := args[0]

	cfg, err := rc.resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	err = checkOutputDir(cfg.Output.Directory)
	if err != nil {
		return err
	}

	obsCfg := rc.telemetryConfig(cmd, cfg)

	providers, err := rc.initTelemetry(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer shutdownTelemetry(providers, time.Duration(obsCfg.ShutdownTimeoutSec)*time.Second)

	ctx, span := providers.Tracer.Start(cmd.Context(), "procstats.run",
		trace.WithAttributes(attribute.String("input", inputPath)))
	defer span.End()

	logger := providers.Logger

	values, err := measurements.ReadFile(inputPath, cfg.Input.Column)
	if err != nil {
		return err
	}

	logInput(ctx, logger, inputPath, len(values))

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	runner := newRunner(cfg, logger, providers.Tracer, metrics)

	results, runErr := runner.Run(ctx, sampling.Views(values))

	err = writeReport(cmd.OutOrStdout(), cfg, results)
	if err != nil {
		return err
	}

	return runErr
}

// resolveConfig loads file and environment settings, then applies explicitly set flags.
func (rc *RunCommand) resolveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed(flagOutputDirectory) {
		cfg.Output.Directory = rc.outputDir
	}

	if flags.Changed(flagFormat) {
		cfg.Output.Format = rc.format
	}

	if flags.Changed(flagNoColor) {
		cfg.Output.NoColor = rc.noColor
	}

	if flags.Changed(flagNoPlot) {
		cfg.Chart.Enabled = !rc.noPlot
	}

	if flags.Changed(flagHTML) {
		cfg.Chart.HTML = rc.html
	}

	if flags.Changed(flagPrecision) {
		cfg.Frequency.Precision = rc.precision
	}

	if flags.Changed(flagWorkers) {
		cfg.Pipeline.Workers = rc.workers
	}

	if flags.Changed(flagColumn) {
		cfg.Input.Column = rc.column
	}

	err = config.Validate(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

func (rc *RunCommand) telemetryConfig(cmd *cobra.Command, cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.DebugTrace = rc.debugTrace
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.Format == config.LogFormatJSON
	obsCfg.LogOutput = cmd.ErrOrStderr()

	observability.ApplyOTLPEnv(&obsCfg)

	if flagSet(cmd, "verbose") {
		obsCfg.LogLevel = slog.LevelDebug
	}

	if flagSet(cmd, "quiet") {
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg
}

func flagSet(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return value
}

func shutdownTelemetry(providers observability.Providers, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := providers.Shutdown(ctx)
	if err != nil {
		providers.Logger.Warn("telemetry shutdown failed", "error", err)
	}
}

func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrOutputDir, dir)
	}

	return nil
}

func logInput(ctx context.Context, logger *slog.Logger, path string, count int) {
	attrs := []any{"path", path, "measurements", humanize.Comma(int64(count))}

	info, err := os.Stat(path)
	if err == nil {
		attrs = append(attrs, "size", humanize.Bytes(safeconv.MustInt64ToUint64(info.Size())))
	}

	logger.InfoContext(ctx, "measurements loaded", attrs...)
}

func newRunner(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer, metrics *observability.PipelineMetrics) *pipeline.Runner {
	runner := &pipeline.Runner{
		Workers:   cfg.Pipeline.Workers,
		Precision: cfg.Frequency.Precision,
		OutputDir: cfg.Output.Directory,
		Logger:    logger,
		Tracer:    tracer,
		Metrics:   metrics,
	}

	if !cfg.Chart.Enabled {
		return runner
	}

	runner.PNG = &chart.PNGRenderer{Width: cfg.Chart.Width, Height: cfg.Chart.Height, Style: chart.DefaultStyle()}

	if cfg.Chart.HTML {
		runner.HTML = &chart.HTMLRenderer{Width: cfg.Chart.Width, Height: cfg.Chart.Height, Style: chart.DefaultStyle()}
	}

	return runner
}

func writeReport(w io.Writer, cfg *config.Config, results []pipeline.Result) error {
	writer, err := report.NewWriter(cfg.Output.Format, report.Options{NoColor: cfg.Output.NoColor})
	if err != nil {
		return err
	}

	return writer.Write(w, results)
}
