package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/AngelCh415/wb-ads-dashboard/internal/config"
	"github.com/AngelCh415/wb-ads-dashboard/internal/observability"
	"github.com/AngelCh415/wb-ads-dashboard/internal/utils"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// Deps are the long-lived collaborators shared by every request.
type Deps struct {
	Log      *zap.Logger
	Metrics  observability.MetricsRegistry
	Gatherer prometheus.Gatherer
	Clients  *wbapi.Factory
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = observability.NewNoOpRegistry()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	h := &handlers{
		clients:          d.Clients,
		log:              d.Log,
		metrics:          d.Metrics,
		chunkConcurrency: cfg.ChunkConcurrency,
	}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log, d.Metrics))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	mux.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", apiKeyHeader, utils.RequestIDHeader},
		ExposedHeaders:   []string{utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(utils.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax).Limit)

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "WB Ads Dashboard API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	mux.Route("/api", func(api chi.Router) {
		api.Use(requireAPIKey)

		api.Post("/auth/validate", h.validateKey)
		api.Post("/test-key", h.validateKey)
		api.Get("/balance", h.balance)

		api.Get("/campaigns", h.listCampaigns)
		api.Post("/campaigns/list", h.listCampaignsWithStats)
		api.Route("/campaigns/{id}", func(c chi.Router) {
			c.Post("/overview", h.overview)
			c.Get("/stats", h.stats)
			c.Post("/cpm-clusters", h.clusters)
			c.Post("/clusters", h.clusters)
			c.Get("/manual-keywords", h.manualKeywords)
			c.Get("/auto-stats", h.autoStats)
		})

		api.Post("/search-overview", h.searchOverview)
	})

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Code: http.StatusNotFound, Message: "Route not found"})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Code: http.StatusMethodNotAllowed, Message: "Method not allowed"})
	})

	operation := cfg.ServiceName
	if operation == "" {
		operation = "wb-ads-dashboard"
	}
	return otelhttp.NewHandler(mux, operation,
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" && r.URL.Path != "/metrics" }),
	)
}
