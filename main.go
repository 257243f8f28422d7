package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/VisuaForge/VF-Backend/internal/admin"
	"github.com/VisuaForge/VF-Backend/internal/auth"
	"github.com/VisuaForge/VF-Backend/internal/db"
	"github.com/VisuaForge/VF-Backend/internal/forge"
	"github.com/VisuaForge/VF-Backend/internal/images"
	"github.com/VisuaForge/VF-Backend/internal/middleware"
	"github.com/VisuaForge/VF-Backend/internal/plans"
	"github.com/VisuaForge/VF-Backend/internal/profiles"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	profiles.Init()
	images.Init()
	plans.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/profiles", profiles.SetupRoutes())
	r.Mount("/forge", forge.SetupRoutes())
	r.Mount("/images", images.SetupRoutes())
	r.Mount("/admin", admin.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
