package sessionstate

import (
	"testing"
	"time"
)

func testSession(userID, token string) *Session {
	return &Session{
		UserID:      userID,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestApply_SignedInStartsFetch(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticated,
		Session: testSession("old", "tok-old"),
		Profile: &Profile{ID: "old", Role: RoleAdmin},
	}

	next, eff := Apply(prev, EventSignedIn, testSession("new", "tok-new"))

	if next.Phase != PhaseAuthenticating {
		t.Errorf("expected authenticating, got %s", next.Phase)
	}
	if next.Profile != nil {
		t.Error("expected previous session's profile to be dropped immediately")
	}
	if !eff.FetchProfile {
		t.Error("expected a profile fetch effect")
	}
	if eff.Navigate != "" {
		t.Errorf("expected no redirect before the profile resolves, got %s", eff.Navigate)
	}
}

func TestApply_SignedInWithNilSessionIsNoop(t *testing.T) {
	prev := State{Phase: PhaseUnauthenticated}

	next, eff := Apply(prev, EventSignedIn, nil)

	if next != prev {
		t.Errorf("expected state unchanged, got %+v", next)
	}
	if eff.FetchProfile || eff.Navigate != "" {
		t.Errorf("expected no effect, got %+v", eff)
	}
}

func TestApply_SignedOutClearsEverything(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticating,
		Session: testSession("alice", "tok-1"),
	}

	next, eff := Apply(prev, EventSignedOut, nil)

	if next.Phase != PhaseUnauthenticated || next.Session != nil || next.Profile != nil {
		t.Errorf("expected cleared state, got %+v", next)
	}
	if eff.Navigate != RouteLogin {
		t.Errorf("expected redirect to %s, got %s", RouteLogin, eff.Navigate)
	}
}

func TestApply_TokenRefreshKeepsProfileForSameUser(t *testing.T) {
	profile := &Profile{ID: "alice", Role: RoleAdmin}
	prev := State{
		Phase:   PhaseAuthenticated,
		Session: testSession("alice", "tok-1"),
		Profile: profile,
	}

	next, eff := Apply(prev, EventTokenRefreshed, testSession("alice", "tok-2"))

	if next.Profile != profile {
		t.Error("expected profile kept across a token refresh")
	}
	if next.Session.AccessToken != "tok-2" {
		t.Error("expected session updated")
	}
	if eff.FetchProfile || eff.Navigate != "" {
		t.Errorf("expected no effect, got %+v", eff)
	}
}

func TestApply_TokenRefreshDropsProfileForDifferentUser(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticated,
		Session: testSession("alice", "tok-1"),
		Profile: &Profile{ID: "alice", Role: RoleAdmin},
	}

	next, _ := Apply(prev, EventUserUpdated, testSession("bob", "tok-2"))

	if next.Profile != nil {
		t.Error("expected profile dropped when the session user changes")
	}
	if next.Phase != PhaseAuthenticating {
		t.Errorf("expected authenticating, got %s", next.Phase)
	}
}

func TestApplyProfile_CommitsForCurrentSession(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticating,
		Session: testSession("alice", "tok-1"),
	}
	profile := &Profile{ID: "alice", Role: RoleAdmin}

	next, eff := ApplyProfile(prev, "tok-1", profile, true)

	if next.Phase != PhaseAuthenticated || next.Profile != profile {
		t.Errorf("expected committed profile, got %+v", next)
	}
	if eff.Navigate != RouteAdminDashboard {
		t.Errorf("expected redirect to %s, got %s", RouteAdminDashboard, eff.Navigate)
	}
}

func TestApplyProfile_UserRoleRedirectsToDashboard(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticating,
		Session: testSession("bob", "tok-1"),
	}

	_, eff := ApplyProfile(prev, "tok-1", &Profile{ID: "bob", Role: RoleUser}, true)

	if eff.Navigate != RouteDashboard {
		t.Errorf("expected redirect to %s, got %s", RouteDashboard, eff.Navigate)
	}
}

func TestApplyProfile_NoRedirectOnReload(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticating,
		Session: testSession("alice", "tok-1"),
	}

	_, eff := ApplyProfile(prev, "tok-1", &Profile{ID: "alice", Role: RoleAdmin}, false)

	if eff.Navigate != "" {
		t.Errorf("expected no redirect on initialize, got %s", eff.Navigate)
	}
}

func TestApplyProfile_DiscardsStaleToken(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticating,
		Session: testSession("bob", "tok-2"),
	}

	next, eff := ApplyProfile(prev, "tok-1", &Profile{ID: "alice", Role: RoleAdmin}, true)

	if next != prev {
		t.Errorf("expected stale result discarded, got %+v", next)
	}
	if eff.Navigate != "" || eff.FetchProfile {
		t.Errorf("expected no effect for a discarded result, got %+v", eff)
	}
}

func TestApplyProfile_DiscardsAfterSignOut(t *testing.T) {
	prev := State{Phase: PhaseUnauthenticated}

	next, eff := ApplyProfile(prev, "tok-1", &Profile{ID: "alice", Role: RoleAdmin}, true)

	if next != prev {
		t.Errorf("expected result discarded after sign-out, got %+v", next)
	}
	if eff.Navigate != "" {
		t.Errorf("expected no redirect, got %s", eff.Navigate)
	}
}

func TestApplyProfile_FetchFailureLeavesRoleUnresolved(t *testing.T) {
	prev := State{
		Phase:   PhaseAuthenticating,
		Session: testSession("alice", "tok-1"),
	}

	next, eff := ApplyProfile(prev, "tok-1", nil, true)

	if next.Phase != PhaseAuthenticated {
		t.Errorf("expected authenticated phase, got %s", next.Phase)
	}
	if next.Profile != nil {
		t.Error("expected nil profile on fetch failure")
	}
	if next.Session == nil {
		t.Error("expected session to survive the failure")
	}
	if eff.Navigate != "" {
		t.Errorf("expected no redirect without a resolved profile, got %s", eff.Navigate)
	}
}

func TestIsAdmin(t *testing.T) {
	cases := []struct {
		name  string
		state State
		want  bool
	}{
		{"unauthenticated", State{}, false},
		{"authenticating", State{Phase: PhaseAuthenticating, Session: testSession("a", "t")}, false},
		{"user role", State{Phase: PhaseAuthenticated, Session: testSession("a", "t"), Profile: &Profile{ID: "a", Role: RoleUser}}, false},
		{"admin role", State{Phase: PhaseAuthenticated, Session: testSession("a", "t"), Profile: &Profile{ID: "a", Role: RoleAdmin}}, true},
		{"admin profile without session", State{Profile: &Profile{ID: "a", Role: RoleAdmin}}, false},
	}

	for _, tc := range cases {
		if got := IsAdmin(tc.state); got != tc.want {
			t.Errorf("%s: IsAdmin=%v, want %v", tc.name, got, tc.want)
		}
	}
}
