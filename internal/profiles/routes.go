package profiles

import (
	"net/http"

	"github.com/VisuaForge/VF-Backend/internal/auth"
	"github.com/VisuaForge/VF-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher, sessionFetcher))

		r.Get("/me", MeHandler)
		r.Patch("/me", UpdateMeHandler)
	})

	return r
}
