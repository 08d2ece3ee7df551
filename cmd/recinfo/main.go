package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"eegviz/internal/config"
	"eegviz/internal/dataprocessing"
	"eegviz/pkg/contracts/domain"
)

// recinfo inspects a recording without rendering anything: it runs the
// cleaning pipeline and prints per-channel statistics to stdout.
func main() {
	dataPath := flag.String("data", config.DefaultRecordingFile, "recording file (.csv or .xlsx), or a directory whose newest recording is used")
	step := flag.Int("step", 1, "keep every step-th sample row before summarizing (1 keeps all)")
	flag.Parse()

	if *step < 1 {
		slog.Error("Invalid -step, must be >= 1", "step", *step)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	source, err := resolveSource(paths, *dataPath)
	if err != nil {
		slog.Error("No recording to inspect", "data", *dataPath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger := slog.Default()

	table, err := dataprocessing.NewLoader(logger).Load(ctx, source, *step)
	if err != nil {
		slog.Error("Failed to load recording", "source", source, "error", err)
		os.Exit(1)
	}

	summaries := dataprocessing.NewSummarizer(logger).Summarize(ctx, table)
	printRecordingSummary(os.Stdout, table, summaries)
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

func printRecordingSummary(w io.Writer, table *domain.SignalTable, summaries []dataprocessing.ChannelSummary) {
	fmt.Fprintln(w, "\n=== RECORDING SUMMARY ===")
	fmt.Fprintf(w, "Source:   %s\n", table.Source)
	fmt.Fprintf(w, "Rows:     %d\n", table.Rows())
	fmt.Fprintf(w, "Channels: %d\n", len(table.Channels))
	if min, max, ok := table.TimeRange(); ok {
		fmt.Fprintf(w, "Time:     %.3fs to %.3fs (%.3fs span)\n", min, max, max-min)
	} else {
		fmt.Fprintln(w, "Time:     no samples after cleaning")
	}

	if len(summaries) == 0 {
		return
	}

	fmt.Fprintln(w, "\n=== CHANNEL STATISTICS ===")
	fmt.Fprintln(w, "Channel  | Kind      | Samples | Missing |         Min |         Max |        Mean")
	fmt.Fprintln(w, "---------|-----------|---------|---------|-------------|-------------|------------")

	for _, s := range summaries {
		fmt.Fprintf(w, "%-8s | %-9s | %7d | %7d | %11.3f | %11.3f | %11.3f\n",
			s.Name, s.Kind, s.Samples, s.Missing, s.Min, s.Max, s.Mean)
	}
}
