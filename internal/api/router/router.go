package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/wolfman30/listing-lead-relay/internal/http/middleware"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

// DefaultLeadPath is where the contact form posts.
const DefaultLeadPath = "/send-email"

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       http.Handler
	LeadPath           string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// RateLimiter is optional; nil disables per-IP limiting on the lead path.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	leadPath := cfg.LeadPath
	if leadPath == "" {
		leadPath = DefaultLeadPath
	}
	r.Group(func(lead chi.Router) {
		lead.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
		if cfg.RateLimiter != nil {
			lead.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}
		// Every method reaches the handler so it can answer 204/405 itself.
		lead.Handle(leadPath, cfg.LeadsHandler)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
