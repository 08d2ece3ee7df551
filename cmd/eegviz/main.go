package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"eegviz/internal/chart"
	"eegviz/internal/config"
	"eegviz/internal/dataprocessing"
	"eegviz/internal/exporter"
	"eegviz/internal/infrastructure"
	"eegviz/internal/viewer"
	"eegviz/pkg/contracts"
	"eegviz/pkg/contracts/domain"
)

func main() {
	dataPath := flag.String("data", config.DefaultRecordingFile, "recording file (.csv or .xlsx), or a directory whose newest recording is used")
	title := flag.String("title", config.DefaultChartTitle, "chart title")
	out := flag.String("out", config.DefaultOutputDir, "output directory for exported artifacts")
	channels := flag.String("channels", "", "comma-separated channel subset to plot (default: every known channel)")
	ecgUnits := flag.String("ecg-units", "mv", "ECG panel units: uv | mv")
	step := flag.Int("step", 1, "keep every step-th sample row (1 keeps all)")
	initialRange := flag.String("initial-range", "", "initially visible time window as START,END seconds")
	exportTable := flag.Bool("export-table", false, "additionally export the cleaned table as CSV and XLSX")
	show := flag.Bool("show", false, "serve the chart on a local viewer and open the browser")
	flag.Parse()

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	// Ensure all required directories exist
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{
				Level:       "info",
				Format:      "json",
				Output:      "both",
				FilePath:    paths.GetLogPath("eegviz.log"),
				Development: false,
			},
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())

	logger.InfoContext(ctx, "Starting eegviz",
		slog.String("version", contracts.Version),
		slog.String("data", *dataPath),
		slog.String("output_dir", *out),
		slog.Int("step", *step),
		slog.Bool("show", *show),
		slog.String("executable_dir", paths.ExecutableDir))

	opts, err := buildChartOptions(*title, *ecgUnits, *channels, *initialRange)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid flags", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *step < 1 {
		logger.ErrorContext(ctx, "Invalid flags", slog.String("error", fmt.Sprintf("-step must be >= 1, got %d", *step)))
		os.Exit(1)
	}

	providers, metrics := initTelemetry(ctx, logger)
	if providers != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := providers.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Telemetry shutdown incomplete", slog.String("error", err.Error()))
			}
		}()
	}

	source, err := resolveSource(paths, *dataPath)
	if err != nil {
		logger.ErrorContext(ctx, "No recording to load",
			slog.String("data", *dataPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	loader := dataprocessing.NewLoader(logger)
	loadCtx, loadSpan := infrastructure.StartStageSpan(ctx, "load")
	loadStart := time.Now()
	table, err := loader.Load(loadCtx, source, *step)
	loadDuration := time.Since(loadStart)
	if err != nil {
		infrastructure.RecordLoadMetrics(loadCtx, metrics, source, 0, 0, loadDuration, err)
		infrastructure.EndStageSpan(loadSpan, err)
		logger.ErrorContext(ctx, "Failed to load recording",
			slog.String("source", source),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	infrastructure.RecordLoadMetrics(loadCtx, metrics, source, table.Rows(), len(table.Channels), loadDuration, nil)
	infrastructure.EndStageSpan(loadSpan, nil)

	summaries := dataprocessing.NewSummarizer(logger).Summarize(ctx, table)
	logRecordingOverview(ctx, logger, table, summaries)

	builder := chart.NewBuilder(logger)
	buildCtx, buildSpan := infrastructure.StartStageSpan(ctx, "build")
	buildStart := time.Now()
	fig, err := builder.Build(buildCtx, table, opts)
	if err != nil {
		infrastructure.EndStageSpan(buildSpan, err)
		logger.ErrorContext(ctx, "Failed to build chart", slog.String("error", err.Error()))
		os.Exit(1)
	}
	infrastructure.RecordChartMetrics(buildCtx, metrics, len(fig.Data), time.Since(buildStart))
	infrastructure.EndStageSpan(buildSpan, nil)

	exp := exporter.New(logger, cfg.Export, paths, metrics)
	exportCtx, exportSpan := infrastructure.StartStageSpan(ctx, "export")
	artifacts, err := exp.Export(exportCtx, fig, table, exporter.Options{
		OutputDir:    *out,
		IncludeTable: *exportTable,
	})
	infrastructure.EndStageSpan(exportSpan, err)
	if err != nil {
		logger.ErrorContext(ctx, "Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Export complete",
		slog.String("html", artifacts.HTML),
		slog.String("png", artifacts.PNG),
		slog.String("pdf", artifacts.PDF),
		slog.String("csv", artifacts.CSV),
		slog.String("xlsx", artifacts.XLSX))

	if *show {
		srv := viewer.New(cfg.Viewer, logger, viewer.Options{
			ChartPath: artifacts.HTML,
			Table:     table,
			Summaries: summaries,
			Providers: providers,
			Metrics:   metrics,
		})
		if err := srv.Run(ctx); err != nil {
			logger.ErrorContext(ctx, "Viewer failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}

// initTelemetry starts OpenTelemetry; the pipeline keeps running without
// it when initialization fails.
func initTelemetry(ctx context.Context, logger *slog.Logger) (*infrastructure.OTelProviders, *infrastructure.PipelineMetrics) {
	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.WarnContext(ctx, "Telemetry unavailable, continuing without it", slog.String("error", err.Error()))
		return nil, nil
	}

	var metrics *infrastructure.PipelineMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			logger.WarnContext(ctx, "Pipeline metrics unavailable", slog.String("error", err.Error()))
			metrics = nil
		}
	}

	return providers, metrics
}

// resolveSource maps the -data flag onto a concrete recording file. A
// directory selects its newest recording by modification time.
func resolveSource(paths *config.Paths, ref string) (string, error) {
	resolved := paths.ResolveRecording(ref)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("recording %q not found: %w", ref, err)
	}
	if info.IsDir() {
		return dataprocessing.DiscoverLatest(resolved)
	}
	return resolved, nil
}

// buildChartOptions assembles chart options from the raw flag values.
func buildChartOptions(title, ecgUnits, channels, initialRange string) (chart.Options, error) {
	window, err := parseTimeWindow(initialRange)
	if err != nil {
		return chart.Options{}, fmt.Errorf("invalid -initial-range: %w", err)
	}

	return chart.Options{
		Title:        title,
		ECGUnits:     ecgUnits,
		Channels:     parseChannelList(channels),
		InitialRange: window,
	}, nil
}

// parseChannelList splits a comma-separated channel flag into trimmed
// names. An empty flag keeps the default channel selection.
func parseChannelList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseTimeWindow parses "START,END" in seconds. An empty value means no
// preselected window.
func parseTimeWindow(raw string) (*chart.TimeWindow, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected START,END, got %q", raw)
	}

	start, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q", parts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end %q", parts[1])
	}
	if end <= start {
		return nil, fmt.Errorf("end %v is not after start %v", end, start)
	}

	return &chart.TimeWindow{Start: start, End: end}, nil
}

// logRecordingOverview logs the shape of the cleaned recording before
// chart construction.
func logRecordingOverview(ctx context.Context, logger *slog.Logger, table *domain.SignalTable, summaries []dataprocessing.ChannelSummary) {
	var missing int
	kinds := map[string]int{}
	for _, s := range summaries {
		missing += s.Missing
		kinds[s.Kind]++
	}

	attrs := []any{
		slog.Int("rows", table.Rows()),
		slog.Int("channels", len(summaries)),
		slog.Int("missing_samples", missing),
		slog.Int("eeg_channels", kinds["eeg"]),
		slog.Int("ecg_channels", kinds["ecg"]),
	}
	if min, max, ok := table.TimeRange(); ok {
		attrs = append(attrs,
			slog.Float64("time_min", min),
			slog.Float64("time_max", max))
	}

	logger.InfoContext(ctx, "Recording cleaned", attrs...)
}
