package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eegviz/internal/config"
	"eegviz/internal/dataprocessing"
	"eegviz/internal/infrastructure"
	"eegviz/internal/shared/testutil"
	"eegviz/pkg/contracts"
	api "eegviz/pkg/contracts/api/v1"
	"eegviz/pkg/contracts/domain"
)

func testViewerConfig() config.ViewerConfig {
	return config.ViewerConfig{
		Host:      "127.0.0.1",
		Port:      8765,
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

func testTable() *domain.SignalTable {
	return &domain.SignalTable{
		Source: "session.csv",
		Time:   []float64{0, 0.5, 1.0},
		Channels: []domain.Channel{
			{Name: "Fp1", Samples: []float64{1, 2, 3}},
			{Name: "X1:LEOG", Samples: []float64{40, 50, 60}},
		},
	}
}

func newTestServer(t *testing.T, table *domain.SignalTable, opts Options) *Server {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)

	if opts.ChartPath == "" {
		chartPath := filepath.Join(t.TempDir(), "multichannel_plot.html")
		require.NoError(t, os.WriteFile(chartPath, []byte("<!DOCTYPE html>\n<html><body>chart</body></html>"), 0o644))
		opts.ChartPath = chartPath
	}
	if opts.Table == nil {
		opts.Table = table
	}
	if opts.Summaries == nil && table != nil {
		opts.Summaries = dataprocessing.NewSummarizer(logger).Summarize(context.Background(), table)
	}

	return New(testViewerConfig(), logger, opts)
}

func TestServeChart(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "chart")

	// Middleware chain applies to the page as well
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestServeChartMissingArtifact(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{
		ChartPath: filepath.Join(t.TempDir(), "never_exported.html"),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Not Found", problem["title"])
	assert.NotEmpty(t, problem["trace_id"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, contracts.Version, health.Version)
	assert.NotEmpty(t, health.Uptime)
	assert.NotEmpty(t, health.Runtime.GoVersion)
	assert.Positive(t, health.Runtime.Goroutines)
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary api.SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "session.csv", summary.Source)
	assert.Equal(t, 3, summary.Rows)
	require.NotNil(t, summary.TimeRange)
	assert.Equal(t, 0.0, summary.TimeRange.Min)
	assert.Equal(t, 1.0, summary.TimeRange.Max)

	require.Len(t, summary.Channels, 2)
	assert.Equal(t, "Fp1", summary.Channels[0].Name)
	assert.Equal(t, "eeg", summary.Channels[0].Kind)
	assert.Equal(t, "ecg", summary.Channels[1].Kind)
	assert.Equal(t, 50.0, summary.Channels[1].Mean)
}

func TestSummaryEndpointEmptyTable(t *testing.T) {
	empty := &domain.SignalTable{Source: "empty.csv"}
	srv := newTestServer(t, empty, Options{Summaries: []dataprocessing.ChannelSummary{}})

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "empty.csv", payload["source"])
	assert.EqualValues(t, 0, payload["rows"])
	assert.NotContains(t, payload, "time_range")
}

func TestMetricsEndpointWiring(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{
		Providers: &infrastructure.OTelProviders{PrometheusHTTP: promhttp.Handler()},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMetricsEndpointAbsentWithoutProviders(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := newTestServer(t, testTable(), Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
