package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"eegviz/internal/chart"
	"eegviz/internal/config"
	apperrors "eegviz/internal/errors"
	"eegviz/internal/infrastructure"
	"eegviz/pkg/contracts/domain"
)

// Artifacts lists the files one export run produced. Paths are empty for
// artifacts that were skipped or degraded away.
type Artifacts struct {
	HTML string
	PNG  string
	PDF  string
	CSV  string
	XLSX string
}

// Options select what one export run writes beyond the HTML artifact.
type Options struct {
	// OutputDir receives every artifact. Empty falls back to the default
	// output directory.
	OutputDir string
	// IncludeTable additionally writes the cleaned table as CSV and XLSX.
	IncludeTable bool
}

// Exporter orchestrates one export run: the interactive HTML artifact
// always, static snapshots unless disabled or the browser is missing, and
// the cleaned table on request.
type Exporter struct {
	logger  *slog.Logger
	cfg     config.ExportConfig
	html    *HTMLWriter
	static  *StaticExporter
	table   *TableWriter
	metrics *infrastructure.PipelineMetrics
}

// New creates an Exporter. A nil logger falls back to slog.Default();
// metrics may be nil.
func New(logger *slog.Logger, cfg config.ExportConfig, paths *config.Paths, metrics *infrastructure.PipelineMetrics) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger:  logger,
		cfg:     cfg,
		html:    NewHTMLWriter(logger),
		static:  NewStaticExporter(logger, cfg, paths),
		table:   NewTableWriter(logger),
		metrics: metrics,
	}
}

// Export writes the artifacts for fig, and for table when requested, into
// the output directory. The HTML artifact is the primary product and the
// only fatal one; a missing browser degrades static export to a logged hint.
func (e *Exporter) Export(ctx context.Context, fig *chart.Figure, table *domain.SignalTable, opts Options) (*Artifacts, error) {
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = config.DefaultOutputDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := &Artifacts{}

	htmlPath := filepath.Join(outDir, config.ArtifactHTML)
	start := time.Now()
	err := e.html.Write(ctx, fig, htmlPath)
	infrastructure.RecordExportMetrics(ctx, e.metrics, "html", time.Since(start), err)
	if err != nil {
		return nil, apperrors.NewExportError("interactive export failed", err)
	}
	artifacts.HTML = htmlPath

	if e.cfg.DisableStatic {
		e.logger.InfoContext(ctx, "Static export disabled")
	} else {
		pngPath := filepath.Join(outDir, config.ArtifactPNG)
		pdfPath := filepath.Join(outDir, config.ArtifactPDF)
		start = time.Now()
		err = e.static.Export(ctx, htmlPath, pngPath, pdfPath)
		infrastructure.RecordExportMetrics(ctx, e.metrics, "static", time.Since(start), err)
		switch {
		case err == nil:
			artifacts.PNG = pngPath
			artifacts.PDF = pdfPath
		case apperrors.IsStaticExportError(err):
			e.logger.WarnContext(ctx, "Static export unavailable",
				slog.String("hint", apperrors.StaticExportHint),
				slog.String("error", err.Error()))
		default:
			return nil, err
		}
	}

	if opts.IncludeTable {
		csvPath := filepath.Join(outDir, config.ArtifactTableCSV)
		start = time.Now()
		err = e.table.WriteCSV(ctx, table, csvPath)
		infrastructure.RecordExportMetrics(ctx, e.metrics, "table_csv", time.Since(start), err)
		if err != nil {
			return nil, apperrors.NewExportError("table export failed", err)
		}
		artifacts.CSV = csvPath

		xlsxPath := filepath.Join(outDir, config.ArtifactTableXLSX)
		start = time.Now()
		err = e.table.WriteXLSX(ctx, table, xlsxPath)
		infrastructure.RecordExportMetrics(ctx, e.metrics, "table_xlsx", time.Since(start), err)
		if err != nil {
			return nil, apperrors.NewExportError("table export failed", err)
		}
		artifacts.XLSX = xlsxPath
	}

	return artifacts, nil
}
