package viewer

import (
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-chi/render"

	"eegviz/internal/dataprocessing"
	"eegviz/pkg/contracts"
	api "eegviz/pkg/contracts/api/v1"
	"eegviz/pkg/contracts/domain"
)

// Handler serves the chart page and the companion JSON API for one
// exported recording. The summary payload is computed once at startup;
// the chart artifact is read per request so a re-export shows up on
// refresh.
type Handler struct {
	logger    *slog.Logger
	chartPath string
	summary   api.SummaryResponse
	started   time.Time
}

// NewHandler creates a Handler for the chart artifact at chartPath,
// describing the given cleaned table.
func NewHandler(logger *slog.Logger, chartPath string, table *domain.SignalTable, summaries []dataprocessing.ChannelSummary) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		logger:    logger.With(slog.String("component", "viewer")),
		chartPath: chartPath,
		summary:   buildSummary(table, summaries),
		started:   time.Now(),
	}
}

// ServeChart serves the exported interactive HTML document.
func (h *Handler) ServeChart(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(h.chartPath); err != nil {
		h.logger.ErrorContext(r.Context(), "chart artifact unavailable",
			slog.String("path", h.chartPath),
			slog.String("error", err.Error()))
		writeProblem(w, r, http.StatusNotFound, "Not Found", "no chart has been exported")
		return
	}

	// The artifact may be replaced by a concurrent export run; no-store
	// keeps a browser refresh in step with the file on disk.
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, h.chartPath)
}

// Health reports liveness, version and runtime details.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	info := contracts.GetVersionInfo()

	render.JSON(w, r, api.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   info.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: api.RuntimeInfo{
			GoVersion:  info.GoVersion,
			OS:         info.OS,
			Arch:       info.Architecture,
			Goroutines: runtime.NumGoroutine(),
		},
	})
}

// Summary reports the recording behind the served chart.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary)
}

// buildSummary maps the cleaned table and its per-channel statistics onto
// the API contract. An empty table yields a payload without a time range.
func buildSummary(table *domain.SignalTable, summaries []dataprocessing.ChannelSummary) api.SummaryResponse {
	resp := api.SummaryResponse{
		Channels: make([]api.ChannelSummary, 0, len(summaries)),
	}

	if table != nil {
		resp.Source = table.Source
		resp.Rows = table.Rows()
		if min, max, ok := table.TimeRange(); ok {
			resp.TimeRange = &api.TimeRange{Min: min, Max: max}
		}
	}

	for _, s := range summaries {
		resp.Channels = append(resp.Channels, api.ChannelSummary{
			Name:    s.Name,
			Kind:    s.Kind,
			Samples: s.Samples,
			Missing: s.Missing,
			Min:     s.Min,
			Max:     s.Max,
			Mean:    s.Mean,
		})
	}

	return resp
}
