package sessionstate

// Phase is the authorization state machine position.
type Phase int

const (
	// PhaseUnauthenticated: no session.
	PhaseUnauthenticated Phase = iota
	// PhaseAuthenticating: session present, profile fetch in flight.
	PhaseAuthenticating
	// PhaseAuthenticated: session present, profile resolution finished.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is the store's snapshot: current session, and the last profile that was
// successfully resolved for that session.
type State struct {
	Phase   Phase
	Session *Session
	Profile *Profile
}

// Effect is what the store must do after a transition. Transitions themselves
// are pure; navigation and fetching happen outside.
type Effect struct {
	// FetchProfile: start a profile fetch for State.Session.
	FetchProfile bool
	// Navigate: route to redirect to, empty for no redirect.
	Navigate string
}

// Apply computes the next state for an identity event. Pure function.
func Apply(s State, event Event, session *Session) (State, Effect) {
	switch event {
	case EventSignedIn:
		if session == nil {
			return s, Effect{}
		}
		// The old profile belongs to the old session; drop it immediately so
		// authorization never reads a profile from a previous identity.
		return State{
			Phase:   PhaseAuthenticating,
			Session: session,
		}, Effect{FetchProfile: true}

	case EventSignedOut:
		// Takes effect immediately, regardless of any fetch still in flight.
		return State{Phase: PhaseUnauthenticated}, Effect{Navigate: RouteLogin}

	default:
		// Token refresh, user update, etc: update the session, no redirect.
		if session == nil {
			return State{Phase: PhaseUnauthenticated}, Effect{}
		}
		next := State{Phase: s.Phase, Session: session, Profile: s.Profile}
		if next.Phase == PhaseUnauthenticated {
			next.Phase = PhaseAuthenticating
		}
		if next.Profile != nil && next.Profile.ID != session.UserID {
			next.Profile = nil
			next.Phase = PhaseAuthenticating
		}
		return next, Effect{}
	}
}

// ApplyProfile commits a resolved profile fetch. token is the access token of the
// session the fetch was started for; a result belonging to a superseded session
// is discarded. profile is nil when the fetch failed (role stays unresolved).
// Pure function.
func ApplyProfile(s State, token string, profile *Profile, signIn bool) (State, Effect) {
	if s.Session == nil || s.Session.AccessToken != token {
		// Stale result for a session that no longer exists; discard.
		return s, Effect{}
	}

	next := State{
		Phase:   PhaseAuthenticated,
		Session: s.Session,
		Profile: profile,
	}

	eff := Effect{}
	if signIn && profile != nil {
		if profile.Role == RoleAdmin {
			eff.Navigate = RouteAdminDashboard
		} else {
			eff.Navigate = RouteDashboard
		}
	}
	return next, eff
}

// IsAdmin derives the authorization gate's answer from a state snapshot: true
// only when the last successfully resolved profile for the current session has
// the admin role.
func IsAdmin(s State) bool {
	return s.Session != nil && s.Profile != nil && s.Profile.Role == RoleAdmin
}
