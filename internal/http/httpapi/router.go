package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"retrobooth/internal/http/handlers"
	"retrobooth/internal/infra"
	"retrobooth/internal/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.CORS(allowedOrigins),
		middleware.Logger(logger),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/booth", func(r chi.Router) {
		r.Get("/", app.BoothStatus)
		r.Post("/batch", app.BatchStart)
		r.Post("/reset", app.Reset)
		r.Route("/jobs/{label}", func(r chi.Router) {
			r.Post("/regenerate", app.Regenerate)
			r.Post("/feedback", app.Feedback)
		})
	})

	return r
}
