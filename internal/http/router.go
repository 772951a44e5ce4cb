// Package httpapi assembles the HTTP surface: middleware chain, public
// routes, and the authenticated /v1 API.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attendancehandler "rollcall/internal/attendance/handler"
	authnhandler "rollcall/internal/authn/handler"
	directoryhandler "rollcall/internal/directory/handler"
	"rollcall/internal/platform/metrics"
	settingshandler "rollcall/internal/settings/handler"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/middleware"
	adminmw "rollcall/pkg/platform/middleware/admin"
	authmw "rollcall/pkg/platform/middleware/auth"
	"rollcall/pkg/platform/middleware/metadata"
	"rollcall/pkg/platform/middleware/request"
	"rollcall/pkg/platform/middleware/requesttime"
)

// Dependencies carries everything the router mounts.
type Dependencies struct {
	Attendance *attendancehandler.Handler
	Settings   *settingshandler.Handler
	Directory  *directoryhandler.Handler
	Authn      *authnhandler.Handler

	TokenValidator    authmw.JWTValidator
	RevocationChecker authmw.TokenRevocationChecker

	Health         func() map[string]string
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the full route tree. Order matters in the middleware
// chain: recovery outermost, then correlation and observability, then the
// request deadline.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(requestLatency(deps.Metrics))
	}
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		deps.Authn.RegisterPublic(r)

		// Everything below requires a valid, unrevoked token.
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(deps.TokenValidator, deps.RevocationChecker, deps.Logger))

			deps.Authn.Register(r)
			deps.Attendance.Register(r)
			deps.Settings.Register(r)
			deps.Directory.RegisterAuthed(r)

			r.Group(func(r chi.Router) {
				r.Use(adminmw.RequireAdmin(deps.Logger))
				deps.Directory.Register(r)
			})
		})
	})

	return r
}

// requestLatency observes request durations per route pattern. The chi
// pattern is only known after the handler runs, so it is read afterwards.
func requestLatency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, r.Method, time.Since(start).Seconds())
		})
	}
}

func handleHealth(health func() map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok"}
		if health != nil {
			for name, state := range health() {
				body[name] = state
			}
		}
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}
