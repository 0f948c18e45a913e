package bootstrap

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/listing-lead-relay/internal/api/router"
	appconfig "github.com/wolfman30/listing-lead-relay/internal/config"
	httpmiddleware "github.com/wolfman30/listing-lead-relay/internal/http/middleware"
	"github.com/wolfman30/listing-lead-relay/internal/observability/metrics"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

// App is the assembled HTTP surface shared by the server and lambda entrypoints.
type App struct {
	Handler http.Handler
	Metrics *metrics.LeadMetrics

	done chan struct{}
}

// Close stops background work started by BuildApp.
func (a *App) Close() {
	if a.done != nil {
		close(a.done)
		a.done = nil
	}
}

// SetupMetrics registers the lead series plus runtime collectors on a
// private registry and returns its scrape handler.
func SetupMetrics() (http.Handler, *metrics.LeadMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewLeadMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}

// BuildApp wires relay, handler, metrics and router from configuration.
func BuildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *App {
	if logger == nil {
		logger = logging.Default()
	}

	metricsHandler, leadMetrics := SetupMetrics()
	if !cfg.MetricsEnabled {
		metricsHandler = nil
	}

	app := &App{Metrics: leadMetrics}

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		app.done = make(chan struct{})
		go limiter.Run(app.done)
		logger.Info("rate limiting enabled", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       BuildLeadHandler(ctx, cfg, logger, leadMetrics),
		LeadPath:           cfg.LeadPath,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})
	return app
}
