package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "eegviz/internal/errors"
	"eegviz/pkg/contracts/domain"
)

// Loader reads delimited biosignal recordings into cleaned SignalTable
// values. CSV is the primary format; .xlsx workbooks go through the same
// cleaning pipeline after sheet extraction.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads source and applies the cleaning contract: the exact Time column
// is required, rows whose Time cell cannot be parsed are dropped, rows are
// stable-sorted by Time, ignore-set columns are removed, and every remaining
// cell is coerced to float64 with NaN standing in for unparseable values.
// A step greater than 1 keeps only every step-th row of the cleaned table.
//
// A zero-row result is valid; only a missing Time column is fatal.
func (l *Loader) Load(ctx context.Context, source string, step int) (*domain.SignalTable, error) {
	start := time.Now()

	header, rows, err := l.readRows(ctx, source)
	if err != nil {
		return nil, err
	}

	table, err := l.clean(ctx, source, header, rows)
	if err != nil {
		return nil, err
	}

	if step > 1 {
		before := table.Rows()
		table = table.Decimate(step)
		l.logger.InfoContext(ctx, "Decimated recording",
			slog.Int("step", step),
			slog.Int("rows_before", before),
			slog.Int("rows_after", table.Rows()))
	}

	attrs := []any{
		slog.String("source", source),
		slog.Int("rows", table.Rows()),
		slog.Int("channels", len(table.Channels)),
		slog.Duration("duration", time.Since(start)),
	}
	if minTime, maxTime, ok := table.TimeRange(); ok {
		attrs = append(attrs,
			slog.Float64("time_min", minTime),
			slog.Float64("time_max", maxTime))
	}
	l.logger.InfoContext(ctx, "Loaded recording", attrs...)

	return table, nil
}

// readRows dispatches on the file extension and returns the header row and
// the raw data rows as strings.
func (l *Loader) readRows(ctx context.Context, source string) ([]string, [][]string, error) {
	if strings.EqualFold(filepath.Ext(source), ".xlsx") {
		return l.readWorkbook(ctx, source)
	}
	return l.readCSV(ctx, source)
}

func (l *Loader) readCSV(ctx context.Context, source string) ([]string, [][]string, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	// Recordings in the wild have ragged trailing columns.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("recording %s has no header row", source)
	}

	l.logger.DebugContext(ctx, "Read delimited recording",
		slog.String("source", source),
		slog.Int("rows", len(records)-1))

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	return header, records[1:], nil
}

func (l *Loader) readWorkbook(ctx context.Context, source string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook %s has no sheets", source)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	l.logger.DebugContext(ctx, "Read workbook sheet",
		slog.String("source", source),
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(rows)))

	// Same comment convention as the delimited form.
	filtered := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && strings.HasPrefix(row[0], "#") {
			continue
		}
		filtered = append(filtered, row)
	}
	if len(filtered) == 0 {
		return nil, nil, fmt.Errorf("recording %s has no header row", source)
	}

	header := filtered[0]
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	return header, filtered[1:], nil
}

// clean applies the column and row rules to raw string rows and assembles the
// SignalTable. Column order follows the source header.
func (l *Loader) clean(ctx context.Context, source string, header []string, rows [][]string) (*domain.SignalTable, error) {
	timeIdx := -1
	for i, name := range header {
		if name == domain.TimeColumn {
			timeIdx = i
			break
		}
	}
	if timeIdx == -1 {
		return nil, apperrors.NewSchemaError(source, domain.TimeColumn)
	}

	type column struct {
		name string
		idx  int
	}
	columns := make([]column, 0, len(header))
	var ignored []string
	for i, name := range header {
		if i == timeIdx {
			continue
		}
		if domain.IsIgnoredColumn(name) {
			ignored = append(ignored, name)
			continue
		}
		columns = append(columns, column{name: name, idx: i})
	}
	if len(ignored) > 0 {
		l.logger.DebugContext(ctx, "Dropped non-signal columns",
			slog.Any("columns", ignored))
	}

	times := make([]float64, 0, len(rows))
	samples := make([][]float64, len(columns))
	for i := range samples {
		samples[i] = make([]float64, 0, len(rows))
	}

	droppedRows := 0
	for _, row := range rows {
		t := parseSample(row, timeIdx)
		if math.IsNaN(t) {
			droppedRows++
			continue
		}
		times = append(times, t)
		for ci, col := range columns {
			samples[ci] = append(samples[ci], parseSample(row, col.idx))
		}
	}
	if droppedRows > 0 {
		l.logger.DebugContext(ctx, "Dropped rows without a valid time",
			slog.Int("rows", droppedRows))
	}

	// Stable sort keeps the source order of equal timestamps.
	order := make([]int, len(times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return times[order[a]] < times[order[b]]
	})

	sortedTimes := make([]float64, len(times))
	for i, idx := range order {
		sortedTimes[i] = times[idx]
	}

	channels := make([]domain.Channel, len(columns))
	for ci, col := range columns {
		values := make([]float64, len(times))
		for i, idx := range order {
			values[i] = samples[ci][idx]
		}
		channels[ci] = domain.Channel{Name: col.name, Samples: values}
	}

	return &domain.SignalTable{
		Source:   source,
		Time:     sortedTimes,
		Channels: channels,
	}, nil
}

// parseSample coerces one cell to float64. Cells that are absent, empty, or
// not numeric come back as NaN.
func parseSample(row []string, idx int) float64 {
	if idx >= len(row) {
		return math.NaN()
	}
	cell := strings.TrimSpace(row[idx])
	if cell == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
