package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"shipment-dashboard/internal/cache"
	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/handlers"
)

// Options wires the router's dependencies.
type Options struct {
	Service *dashboard.Service
	Backend handlers.Pinger
	Logger  *slog.Logger

	CORSOrigin    string
	RateLimit     int // mutations per minute per IP; 0 disables limiting
	HealthTimeout time.Duration
	StaticDir     string // optional built frontend

	// TrackCache, when set, is reported by the health route.
	TrackCache *cache.Manager
}

// NewRouter builds the HTTP handler serving the dashboard API under /api.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	health := handlers.NewHealthHandler(opts.Backend, opts.HealthTimeout, logger).WithTrackCache(opts.TrackCache)
	dash := handlers.NewDashboardHandler(opts.Service, logger)
	orders := handlers.NewOrderHandler(opts.Service, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))
	r.Use(SecurityMiddleware(logger))
	r.Use(CORSMiddleware(opts.CORSOrigin))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.HealthCheck)
		r.Get("/statuses", dash.GetStatuses)
		r.Get("/dashboard", dash.GetDashboard)
		r.Get("/analytics", dash.GetAnalytics)
		r.Get("/orders", orders.GetOrders)
		r.Get("/history", orders.GetHistory)
		r.Get("/track", orders.Track)

		r.Group(func(r chi.Router) {
			if opts.RateLimit > 0 {
				r.Use(RateLimitMiddleware(opts.RateLimit))
			}
			r.Post("/orders", orders.CreateOrder)
			r.Post("/orders/{docID}/status", orders.SetStatus)
			r.Post("/orders/{docID}/complete", orders.Complete)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeFailure(w, http.StatusNotFound, "endpoint tidak ditemukan")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeFailure(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/*", handlers.NewStaticHandler(opts.StaticDir))
	}

	return r
}
