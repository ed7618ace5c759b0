package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/preview-resolver/internal/pkg/httputil"
	"github.com/ignite/preview-resolver/internal/preview"
)

// SetupRoutes configures all routes. Health probes sit outside the frontend
// header contract; everything else, unmatched paths included, runs behind it.
func SetupRoutes(previews *preview.Handler, health *HealthChecker) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/live", health.HandleLiveness)
		r.Get("/health/ready", health.HandleReadiness)
	}

	if previews != nil {
		previews.RegisterRoutes(r)
	}

	r.NotFound(preview.FrontendHeaders(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", preview.CacheControlNoCache)
		httputil.NotFound(w)
	})).ServeHTTP)

	return r
}
