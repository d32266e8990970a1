package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/xavierca1/lead-ledger/internal/infra/http/handlers"
	"github.com/xavierca1/lead-ledger/internal/infra/http/middleware"
)

type Handlers struct {
	Lead      *handlers.LeadHandler
	Analytics *handlers.AnalyticsHandler
	Report    *handlers.ReportHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// NewRouter mounts the lead, analytics and report routes. Only lead registration is
// rate limited.
func NewRouter(h Handlers, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	if h.Health != nil {
		r.Get("/health", h.Health.Handle)
	}

	limiter := middleware.NewRateLimiter(opts.RateLimitPerMinute)

	r.Route("/leads", func(r chi.Router) {
		r.With(limiter.Handler).Post("/", h.Lead.Register)
		r.Get("/", h.Lead.List)
		r.Get("/unprocessed", h.Lead.Unprocessed)
		r.Get("/{id}", h.Lead.Get)
		r.Patch("/{id}/status", h.Lead.MarkStatus)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/daily-signups", h.Analytics.DailySignups)
		r.Get("/conversion-rate", h.Analytics.ConversionRate)
		r.Get("/provinces", h.Analytics.Provinces)
		r.Get("/commission", h.Analytics.Commission)
		r.Get("/roi", h.Analytics.ROI)
	})

	r.Get("/reports", h.Report.Build)

	return r
}
