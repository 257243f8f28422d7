// Package sessionstate keeps a client's session, profile and authorization state
// in sync with the identity provider. It is the single source of truth for
// "who is signed in and which dashboard do they get".
package sessionstate

import (
	"context"
	"errors"
	"time"
)

// Event is an identity provider auth-state event.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
	EventUserUpdated    Event = "USER_UPDATED"
)

// Session is the credential issued by the identity provider, held for the
// lifetime of the client or until sign-out.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Profile is the application-level user record keyed by the session's user ID.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Redirect targets for the route guards.
const (
	RouteLogin          = "/login"
	RouteDashboard      = "/dashboard"
	RouteAdminDashboard = "/admin/dashboard"
)

// ErrProfileNotFound is returned by a ProfileFetcher when the session's user has
// no profile row. The store treats this as role "user", not as a failure.
var ErrProfileNotFound = errors.New("profile not found")

// IdentityProvider is the contract the remote identity service satisfies.
type IdentityProvider interface {
	// GetSession returns the current session, or nil when unauthenticated.
	GetSession(ctx context.Context) (*Session, error)

	// OnAuthStateChange registers a callback for auth events. Events are
	// delivered serially. The returned function unsubscribes the callback.
	OnAuthStateChange(callback func(event Event, session *Session)) (unsubscribe func())

	// SignOut invalidates the current session; the provider emits a
	// SIGNED_OUT event afterwards.
	SignOut(ctx context.Context) error
}

// ProfileFetcher resolves exactly one profile by the session's user ID. It must
// never return a profile for a different ID.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, userID string) (Profile, error)
}

// Navigator executes the redirect decided by a state transition.
type Navigator interface {
	NavigateTo(route string)
}
