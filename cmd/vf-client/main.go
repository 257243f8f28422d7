package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/VisuaForge/VF-Backend/internal/sessionstate"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	baseURL  = flag.String("base-url", "http://localhost:5050", "Backend base URL")
	email    = flag.String("email", "", "Email to sign in with (required)")
	password = flag.String("password", "", "Password (default: env VF_PASSWORD)")
	signOut  = flag.Bool("sign-out", false, "Sign out again after printing the session")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *email == "" {
		log.Fatal("--email is required")
	}
	if *password == "" {
		*password = os.Getenv("VF_PASSWORD")
	}
	if *password == "" {
		log.Fatal("--password not provided and VF_PASSWORD not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider := newAPIProvider(*baseURL)
	fetcher := newAPIFetcher(provider)
	nav := terminalNavigator{}

	store := sessionstate.New(provider, fetcher, nav)
	if err := store.Init(ctx); err != nil {
		log.Fatalf("session init failed: %v", err)
	}
	defer store.Close()

	if store.Session() == nil {
		if err := provider.SignIn(ctx, *email, *password); err != nil {
			log.Fatalf("sign-in failed: %v", err)
		}
		if err := waitForSettle(ctx, store); err != nil {
			log.Fatalf("session never settled: %v", err)
		}
	}

	session := store.Session()
	profile := store.Profile()

	fmt.Printf("Signed in as %s (user id %s)\n", session.Email, session.UserID)
	if profile != nil {
		fmt.Printf("Role: %s\n", profile.Role)
	} else {
		fmt.Println("Role: unresolved (profile fetch failed)")
	}
	fmt.Printf("Admin dashboard access: %v\n", store.IsAdmin())

	if *signOut {
		if err := store.SignOut(ctx); err != nil {
			log.Fatalf("sign-out failed: %v", err)
		}
		fmt.Println("Signed out.")
	}
}

// waitForSettle polls until the async profile fetch after sign-in has resolved.
func waitForSettle(ctx context.Context, store *sessionstate.Store) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if store.Snapshot().Phase == sessionstate.PhaseAuthenticated {
				return nil
			}
		}
	}
}

// terminalNavigator stands in for the SPA router.
type terminalNavigator struct{}

func (terminalNavigator) NavigateTo(route string) {
	fmt.Printf("→ %s\n", route)
}
