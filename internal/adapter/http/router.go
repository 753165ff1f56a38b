package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/trailpost/campground-service/internal/adapter/http/middleware"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

// NewRouter wires the handlers onto the operation surface. Reads are
// public; every mutation requires an authenticated principal.
func NewRouter(
	campgrounds *CampgroundHandler,
	reviews *ReviewHandler,
	jwtSecret string,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	requireAuth := middleware.RequireAuth(jwtSecret, log)

	r.Route("/campgrounds", func(r chi.Router) {
		r.Get("/", campgrounds.List)
		r.Get("/{id}", campgrounds.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", campgrounds.Create)
			r.Put("/{id}", campgrounds.Update)
			r.Delete("/{id}", campgrounds.Delete)
			r.Post("/{id}/reviews", reviews.Create)
			r.Delete("/{id}/reviews/{reviewID}", reviews.Delete)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
