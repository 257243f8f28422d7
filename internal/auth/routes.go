package auth

import (
	"net/http"

	"github.com/VisuaForge/VF-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{}

	r.Post("/register", RegisterHandler)
	r.Post("/login", LoginHandler)
	r.Get("/session", SessionHandler)
	r.Post("/logout", LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher, sessionFetcher))

		r.Get("/me", MeHandler)
		r.Post("/update", UpdateHandler)
	})

	return r
}
