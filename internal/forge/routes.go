package forge

import (
	"log"
	"net/http"
	"time"

	"github.com/VisuaForge/VF-Backend/internal/auth"
	"github.com/VisuaForge/VF-Backend/internal/images"
	"github.com/VisuaForge/VF-Backend/internal/middleware"
	"github.com/VisuaForge/VF-Backend/internal/plans"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func SetupRoutes() http.Handler {
	cfg := LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Printf("[forge] WARNING: %v; generation endpoints will fail until configured", err)
	}

	handler := NewHandler(
		NewClient(cfg),
		images.Store{},
		plans.NewKeeper(plans.DailyQuota),
		plans.Catalog,
	)

	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Get("/styles", handler.StylesHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher, sessionFetcher))

		// Generation is expensive; one request every 2s per user, small burst.
		limiter := middleware.NewRateLimiter(rate.Every(2*time.Second), 3)
		r.Use(limiter.Middleware)

		r.Post("/generate", handler.GenerateHandler)
		r.Post("/edit", handler.EditHandler)
	})

	return r
}
