package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"eegviz/internal/chart"
)

// plotlyCDN is the pinned client-side renderer the interactive artifact loads.
const plotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// chartPage is the interactive artifact. The figure travels in a JSON script
// block so a conformant reader can recover it without executing anything;
// the inline script hands it to the renderer and flags readiness for the
// static export capture.
const chartPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}" charset="utf-8"></script>
<style>
html, body { margin: 0; padding: 0; background: #ffffff; }
#chart { width: 100%; }
</style>
</head>
<body>
<div id="chart"></div>
<script type="application/json" id="figure-data">{{.FigureJSON}}</script>
<script>
(function () {
	var fig = JSON.parse(document.getElementById("figure-data").textContent);
	Plotly.newPlot("chart", fig.data, fig.layout, fig.config).then(function () {
		document.body.setAttribute("data-chart-ready", "1");
	});
})();
</script>
</body>
</html>
`

// HTMLWriter renders the interactive chart artifact.
type HTMLWriter struct {
	logger *slog.Logger
	tmpl   *template.Template
}

// NewHTMLWriter creates an HTMLWriter. A nil logger falls back to
// slog.Default().
func NewHTMLWriter(logger *slog.Logger) *HTMLWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLWriter{
		logger: logger,
		tmpl:   template.Must(template.New("chart").Parse(chartPage)),
	}
}

// Write renders the figure into the interactive HTML artifact at path,
// creating parent directories as needed.
func (w *HTMLWriter) Write(ctx context.Context, fig *chart.Figure, path string) error {
	start := time.Now()

	figJSON, err := json.Marshal(fig)
	if err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}

	var buf bytes.Buffer
	err = w.tmpl.Execute(&buf, struct {
		Title      string
		PlotlyURL  string
		FigureJSON template.JS
	}{
		Title:      fig.Layout.Title.Text,
		PlotlyURL:  plotlyCDN,
		FigureJSON: template.JS(figJSON),
	})
	if err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.InfoContext(ctx, "Wrote interactive chart",
		slog.String("path", path),
		slog.Int("bytes", buf.Len()),
		slog.Int("traces", len(fig.Data)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// ExtractFigure recovers the figure from an interactive chart artifact. It is
// the read side of the artifact contract: Write then ExtractFigure yields the
// same figure.
func ExtractFigure(r io.Reader) (*chart.Figure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart page: %w", err)
	}

	marker := []byte(`id="figure-data"`)
	at := bytes.Index(data, marker)
	if at < 0 {
		return nil, fmt.Errorf("no figure data block in chart page")
	}
	open := bytes.IndexByte(data[at:], '>')
	if open < 0 {
		return nil, fmt.Errorf("malformed figure data block")
	}
	body := data[at+open+1:]
	end := bytes.Index(body, []byte("</script>"))
	if end < 0 {
		return nil, fmt.Errorf("unterminated figure data block")
	}

	var fig chart.Figure
	if err := json.Unmarshal(bytes.TrimSpace(body[:end]), &fig); err != nil {
		return nil, fmt.Errorf("failed to decode figure data: %w", err)
	}
	return &fig, nil
}
