package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"eegviz/internal/config"
	"eegviz/internal/dataprocessing"
	"eegviz/internal/infrastructure"
	"eegviz/pkg/contracts/domain"
)

// probeInterval is the pause between readiness probes before the browser
// is opened.
const probeInterval = 500 * time.Millisecond

// Options carry the data a Server exposes and its observability hooks.
type Options struct {
	// ChartPath is the exported HTML artifact served at /.
	ChartPath string
	// Table is the cleaned recording behind the chart.
	Table *domain.SignalTable
	// Summaries are the per-channel statistics served at /api/summary.
	Summaries []dataprocessing.ChannelSummary
	// Providers supply the Prometheus handler for /metrics and the meter
	// behind periodic system metrics; may be nil.
	Providers *infrastructure.OTelProviders
	// Metrics receive per-request measurements; may be nil.
	Metrics *infrastructure.PipelineMetrics
}

// Server serves an exported chart and its companion API on a local
// address, optionally opening the system browser once ready.
type Server struct {
	cfg        config.ViewerConfig
	logger     *slog.Logger
	handler    *Handler
	router     chi.Router
	http       *http.Server
	sysMetrics *infrastructure.SystemMetricsCollector
}

// New assembles a Server from the viewer configuration and the exported
// recording. A nil logger falls back to slog.Default().
func New(cfg config.ViewerConfig, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		handler: NewHandler(logger, opts.ChartPath, opts.Table, opts.Summaries),
	}
	s.router = s.buildRouter(opts)

	s.http = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if opts.Providers != nil && opts.Providers.Meter != nil {
		collector, err := infrastructure.NewSystemMetricsCollector(opts.Providers.Meter, 30*time.Second)
		if err != nil {
			logger.Warn("system metrics collector unavailable", slog.String("error", err.Error()))
		} else {
			s.sysMetrics = collector
		}
	}

	return s
}

// buildRouter wires the middleware chain and routes.
func (s *Server) buildRouter(opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(StructuredLogger(s.logger))
	r.Use(Recoverer(s.logger))
	r.Use(SecurityHeaders)
	r.Use(Metrics(opts.Metrics))

	r.Get("/", s.handler.ServeChart)

	r.Route("/api", func(api chi.Router) {
		if s.cfg.RateLimit.Enabled {
			api.Use(RateLimiter(s.cfg.RateLimit))
		}
		api.Get("/health", s.handler.Health)
		api.Get("/summary", s.handler.Summary)
	})

	if opts.Providers != nil && opts.Providers.PrometheusHTTP != nil {
		r.Method(http.MethodGet, config.MetricsEndpoint, opts.Providers.PrometheusHTTP)
	}

	return r
}

// Router exposes the assembled handler chain, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// URL returns the address the viewer serves on.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s", s.http.Addr)
}

// Run serves until the context is cancelled or an interrupt arrives, then
// shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	s.logger.InfoContext(ctx, "viewer starting",
		slog.String("name", config.AppName),
		slog.String("addr", s.http.Addr),
		slog.String("url", s.URL()))

	g.Go(func() error {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("viewer server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()

		s.logger.Info("viewer shutting down")
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("viewer shutdown: %w", err)
		}
		return nil
	})

	if s.sysMetrics != nil {
		g.Go(func() error {
			s.sysMetrics.Start(gctx)
			return nil
		})
	}

	if s.cfg.OpenBrowser {
		g.Go(func() error {
			s.openWhenReady(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("viewer stopped")
	return nil
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return config.ViewerShutdownTimeout
}

// openWhenReady probes the health endpoint until it answers, then opens
// the system browser. Giving up is logged but never fails the server.
func (s *Server) openWhenReady(ctx context.Context) {
	client := &http.Client{Timeout: probeInterval}
	healthURL := s.URL() + config.HealthEndpoint
	deadline := time.Now().Add(config.BrowserProbeTimeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(probeInterval):
		}

		resp, err := client.Get(healthURL)
		if err != nil {
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			s.openBrowser(ctx, s.URL())
			return
		}
	}

	s.logger.WarnContext(ctx, "viewer not ready in time, skipping browser launch",
		slog.String("url", s.URL()))
}

// openBrowser launches the platform browser opener for url.
func (s *Server) openBrowser(ctx context.Context, url string) {
	for _, candidate := range browserCommands(url) {
		cmd := exec.Command(candidate[0], candidate[1:]...)
		if err := cmd.Start(); err != nil {
			continue
		}
		s.logger.InfoContext(ctx, "opened browser", slog.String("url", url))
		return
	}

	s.logger.WarnContext(ctx, "could not open browser, open manually",
		slog.String("url", url))
}

// browserCommands returns the opener command candidates for this platform,
// tried in order.
func browserCommands(url string) [][]string {
	switch runtime.GOOS {
	case "windows":
		return [][]string{
			{"cmd", "/c", "start", "", url},
			{"rundll32", "url.dll,FileProtocolHandler", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"firefox", url},
			{"chromium", url},
		}
	}
}
