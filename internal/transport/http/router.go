// Package httptransport assembles the service's HTTP surface: public
// auth endpoints, the authenticated profile and search API, and the
// operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pandacare/internal/auth"
	"pandacare/internal/platform/middleware"
	"pandacare/internal/profile"
	"pandacare/internal/rating"
	"pandacare/internal/search"
)

// Deps carries the wired handlers and the token validator guarding the
// authenticated subtree.
type Deps struct {
	Auth      *auth.Handler
	Profile   *profile.Handler
	Search    *search.Handler
	Rating    *rating.Handler
	Validator middleware.TokenValidator
	Logger    *slog.Logger
}

// NewRouter builds the full route tree. /api/auth is public; the rest
// of /api requires a valid bearer token before the per-route access
// guard runs.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", d.Auth.Register)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(d.Validator, d.Logger))
			d.Profile.Register(protected)
			d.Search.Register(protected)
			d.Rating.Register(protected)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
