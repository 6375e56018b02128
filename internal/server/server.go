package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/smartkuk/simple-flask/internal/config"
	"github.com/smartkuk/simple-flask/internal/events"
	"github.com/smartkuk/simple-flask/internal/handlers"
	"github.com/smartkuk/simple-flask/internal/metrics"
	"github.com/smartkuk/simple-flask/internal/middleware"
	"github.com/smartkuk/simple-flask/internal/users"
)

// Deps are the long-lived collaborators shared by every request.
type Deps struct {
	Registry *users.Registry
	Hub      *events.Hub
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// New creates a fully-configured handler: the chi route table wrapped in the
// middleware chain. The version header is set before CORS so preflight
// answers carry it too, and the context path stage runs last before routing.
func New(cfg *config.Config, deps Deps) (http.Handler, error) {
	if err := config.ValidateContextPath(cfg.ContextPath); err != nil {
		return nil, err
	}
	if deps.Registry == nil || deps.Hub == nil || deps.Metrics == nil || deps.Logger == nil {
		return nil, errors.New("server: registry, hub, metrics and logger are required")
	}

	r := chi.NewRouter()
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// ── Handlers ────────────────────────────────────────────
	systemH := handlers.NewSystemHandler(cfg.Version)
	usersH := handlers.NewUsersHandler(deps.Registry, deps.Hub, deps.Metrics, deps.Logger, cfg.Version, cfg.MaxBodyBytes)
	eventsH := handlers.NewEventsHandler(deps.Hub, deps.Logger, cfg.Version)

	// ── Routes ──────────────────────────────────────────────
	r.Group(systemH.Routes)
	r.Route("/users", usersH.Routes)
	r.Get("/events", eventsH.HandleWS)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	logRoutes(deps.Logger, r, cfg.RoutePrefix())

	// ── Middleware ──────────────────────────────────────────
	chain := chi.Chain(
		middleware.RequestID,
		middleware.Version(cfg.Version),
		chimw.RealIP,
		requestLogger(deps.Logger, deps.Metrics),
		chimw.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{middleware.VersionHeader, middleware.RequestIDHeader},
			MaxAge:         300,
		}),
		middleware.ContextPath(cfg.RoutePrefix(), deps.Logger),
	)

	return chain.Handler(r), nil
}

// logRoutes lists every registered route at startup.
func logRoutes(logger *slog.Logger, routes chi.Routes, prefix string) {
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logger.Info("route registered", "method", method, "route", prefix+route)
		return nil
	})
}

// requestLogger logs each HTTP request with method, path, status code, and
// duration, and records it in the request metrics. Log lines are emitted at
// debug level so they only appear in verbose mode.
func requestLogger(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, status, duration)
			logger.DebugContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", status,
				"duration", duration.Round(time.Millisecond),
				"remote_addr", r.RemoteAddr,
				"request_id", middleware.RequestIDFromContext(r.Context()),
			)
		})
	}
}
