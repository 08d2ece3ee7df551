package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"eegviz/pkg/contracts/domain"
)

// TableWriter exports the cleaned signal table itself, for downstream
// analysis outside the chart. Missing samples become empty cells in both
// formats, so an exported table reloads to an identical one.
type TableWriter struct {
	logger *slog.Logger
}

// NewTableWriter creates a TableWriter. A nil logger falls back to
// slog.Default().
func NewTableWriter(logger *slog.Logger) *TableWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableWriter{logger: logger}
}

// WriteCSV writes the table as CSV with a UTF-8 BOM for spreadsheet
// compatibility.
func (w *TableWriter) WriteCSV(ctx context.Context, table *domain.SignalTable, path string) error {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(tableHeader(table)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range table.Time {
		record := make([]string, 0, len(table.Channels)+1)
		record = append(record, formatSample(table.Time[i]))
		for _, ch := range table.Channels {
			record = append(record, formatSample(ch.Samples[i]))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	w.logger.InfoContext(ctx, "Wrote cleaned table",
		slog.String("path", path),
		slog.Int("rows", table.Rows()),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// WriteXLSX writes the table as a single-sheet workbook.
func (w *TableWriter) WriteXLSX(ctx context.Context, table *domain.SignalTable, path string) error {
	start := time.Now()

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	header := tableHeader(table)
	headerRow := make([]interface{}, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	if err := wb.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range table.Time {
		row := make([]interface{}, 0, len(table.Channels)+1)
		row = append(row, table.Time[i])
		for _, ch := range table.Channels {
			if math.IsNaN(ch.Samples[i]) {
				row = append(row, nil)
			} else {
				row = append(row, ch.Samples[i])
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	w.logger.InfoContext(ctx, "Wrote cleaned workbook",
		slog.String("path", path),
		slog.Int("rows", table.Rows()),
		slog.Duration("duration", time.Since(start)))

	return nil
}

func tableHeader(table *domain.SignalTable) []string {
	return append([]string{domain.TimeColumn}, table.ChannelNames()...)
}

// formatSample renders one cell; missing samples become empty cells that
// read back as missing.
func formatSample(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
