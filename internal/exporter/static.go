package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"eegviz/internal/config"
	apperrors "eegviz/internal/errors"
)

// StaticExporter renders the interactive artifact in a headless browser and
// captures PNG and PDF snapshots of it. A missing browser is a degraded mode,
// not a failure: callers get a StaticExportError carrying the install hint
// and keep the HTML artifact.
type StaticExporter struct {
	logger *slog.Logger
	cfg    config.ExportConfig
	paths  *config.Paths
}

// NewStaticExporter creates a StaticExporter. A nil logger falls back to
// slog.Default(); zero config fields fall back to the package defaults.
func NewStaticExporter(logger *slog.Logger, cfg config.ExportConfig, paths *config.Paths) *StaticExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PNGWidth <= 0 {
		cfg.PNGWidth = 1200
	}
	if cfg.PNGHeight <= 0 {
		cfg.PNGHeight = 800
	}
	if cfg.PNGScale <= 0 {
		cfg.PNGScale = 2
	}
	if cfg.PDFWidthInch <= 0 {
		cfg.PDFWidthInch = 12
	}
	if cfg.PDFHeightInch <= 0 {
		cfg.PDFHeightInch = 8
	}
	if cfg.ChromeTimeout <= 0 {
		cfg.ChromeTimeout = config.DefaultChromeTimeout
	}
	return &StaticExporter{logger: logger, cfg: cfg, paths: paths}
}

// Export navigates one browser session to the rendered chart page and writes
// the PNG and PDF snapshots. The page flags readiness once the renderer has
// drawn, so captures never race the chart.
func (s *StaticExporter) Export(ctx context.Context, htmlPath, pngPath, pdfPath string) error {
	start := time.Now()

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", htmlPath, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.ChromeTimeout)
	defer cancel()

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", true))
	if s.paths != nil {
		opts = append(opts, chromedp.UserDataDir(s.paths.GetCachePath("chrome-profile")))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(runCtx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pngBuf, pdfBuf []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(s.cfg.PNGWidth), int64(s.cfg.PNGHeight),
			chromedp.EmulateScale(s.cfg.PNGScale)),
		chromedp.Navigate(fileURL(absPath)),
		chromedp.WaitVisible(`body[data-chart-ready="1"]`, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&pngBuf),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(s.cfg.PDFWidthInch).
				WithPaperHeight(s.cfg.PDFHeightInch).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	}

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return apperrors.NewStaticExportError(err)
	}

	if err := os.WriteFile(pngPath, pngBuf, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", pngPath, err)
	}
	if err := os.WriteFile(pdfPath, pdfBuf, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", pdfPath, err)
	}

	s.logger.InfoContext(ctx, "Wrote static charts",
		slog.String("png", pngPath),
		slog.String("pdf", pdfPath),
		slog.Int("png_bytes", len(pngBuf)),
		slog.Int("pdf_bytes", len(pdfBuf)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// fileURL turns an absolute path into the file URL a browser can navigate to.
func fileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
