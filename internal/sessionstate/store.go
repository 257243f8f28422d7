package sessionstate

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Store owns the session/profile snapshot. It has an explicit lifecycle: New,
// Init once, Close once. All writes funnel through Init and the identity
// provider's event callback; reads may come from any goroutine.
type Store struct {
	identity IdentityProvider
	fetcher  ProfileFetcher
	nav      Navigator
	logger   *log.Logger

	mu      sync.RWMutex
	state   State
	loading bool

	unsubscribe func()
	fetches     sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithLogger replaces the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func New(identity IdentityProvider, fetcher ProfileFetcher, nav Navigator, opts ...Option) *Store {
	s := &Store{
		identity: identity,
		fetcher:  fetcher,
		nav:      nav,
		logger:   log.Default(),
		loading:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init performs the initial session read and subscribes to auth events. When a
// session already exists, the profile is resolved before Init returns, so
// consumers never see loading=false with an unresolved role. Initialization
// never redirects: a page reload lands where it was.
func (s *Store) Init(ctx context.Context) error {
	session, err := s.identity.GetSession(ctx)
	if err != nil {
		s.logger.Printf("[sessionstate] initial session read failed: %v", err)
		session = nil
	}

	s.mu.Lock()
	if session != nil {
		s.state = State{Phase: PhaseAuthenticating, Session: session}
	} else {
		s.state = State{Phase: PhaseUnauthenticated}
	}
	s.mu.Unlock()

	if session != nil {
		s.resolveProfile(ctx, *session, false)
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()

	s.unsubscribe = s.identity.OnAuthStateChange(s.HandleAuthEvent)
	return nil
}

// Close unsubscribes from auth events and waits for in-flight profile fetches.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.fetches.Wait()
}

// HandleAuthEvent is the identity provider's event callback. The provider
// delivers events serially, so this is the single writer besides Init.
func (s *Store) HandleAuthEvent(event Event, session *Session) {
	s.mu.Lock()
	next, eff := Apply(s.state, event, session)
	s.state = next
	s.loading = false
	s.mu.Unlock()

	if eff.Navigate != "" {
		s.nav.NavigateTo(eff.Navigate)
	}

	if eff.FetchProfile && session != nil {
		captured := *session
		s.fetches.Add(1)
		go func() {
			defer s.fetches.Done()
			s.resolveProfile(context.Background(), captured, true)
		}()
	}
}

// resolveProfile fetches the profile for the given session and commits the
// result, unless the session has been superseded in the meantime. Fetch errors
// are non-fatal: they leave the session intact with the role unresolved.
func (s *Store) resolveProfile(ctx context.Context, session Session, signIn bool) {
	var resolved *Profile

	profile, err := s.fetcher.FetchProfile(ctx, session.UserID)
	switch {
	case err == nil:
		resolved = &profile
	case errors.Is(err, ErrProfileNotFound):
		// Account provisioned without a profile row: least-privilege default.
		resolved = &Profile{ID: session.UserID, Role: RoleUser}
	default:
		s.logger.Printf("[sessionstate] profile fetch for %s failed: %v", session.UserID, err)
	}

	s.mu.Lock()
	next, eff := ApplyProfile(s.state, session.AccessToken, resolved, signIn)
	s.state = next
	s.mu.Unlock()

	if eff.Navigate != "" {
		s.nav.NavigateTo(eff.Navigate)
	}
}

// SignOut asks the identity provider to end the session. State is cleared when
// the resulting SIGNED_OUT event arrives.
func (s *Store) SignOut(ctx context.Context) error {
	return s.identity.SignOut(ctx)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session returns the current session, or nil when unauthenticated.
func (s *Store) Session() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Session
}

// Profile returns the last profile resolved for the current session, or nil.
func (s *Store) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Profile
}

// Loading reports whether the initial session read is still in progress.
// Consumers must not make authorization decisions while it returns true.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin reports whether the current session's resolved profile has the admin
// role. False while unauthenticated, authenticating, or role-unresolved.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return IsAdmin(s.state)
}
