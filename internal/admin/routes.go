package admin

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
		r.Use(middleware.AdminMiddleware())

		r.Get("/users", ListUsersHandler)
		r.Patch("/users/{user_id}/role", UpdateRoleHandler)
		r.Patch("/users/{user_id}/plan", UpdatePlanHandler)
		r.Get("/stats", StatsHandler)
		r.Get("/logs", LogsHandler)
	})

	return r
}
