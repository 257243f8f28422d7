package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/VisuaForge/VF-Backend/internal/sessionstate"
)

// apiProvider implements sessionstate.IdentityProvider over the backend's HTTP
// API, playing the part the hosted identity SDK plays in the browser. It keeps
// a cookie jar so the session cookie rides along automatically, and fans
// auth-state events out to subscribers serially.
type apiProvider struct {
	baseURL string
	client  *http.Client

	mu        sync.Mutex
	current   *sessionstate.Session
	callbacks map[int]func(sessionstate.Event, *sessionstate.Session)
	nextID    int
}

func newAPIProvider(baseURL string) *apiProvider {
	jar, _ := cookiejar.New(nil)
	return &apiProvider{
		baseURL: baseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		callbacks: make(map[int]func(sessionstate.Event, *sessionstate.Session)),
	}
}

type sessionPayload struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (p *sessionPayload) toSession() *sessionstate.Session {
	return &sessionstate.Session{
		UserID:      p.UserID,
		Email:       p.Email,
		AccessToken: p.AccessToken,
		ExpiresAt:   p.ExpiresAt,
	}
}

// SignIn authenticates and emits SIGNED_IN to subscribers.
func (p *apiProvider) SignIn(ctx context.Context, email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var payload sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	session := payload.toSession()
	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	p.emit(sessionstate.EventSignedIn, session)
	return nil
}

func (p *apiProvider) GetSession(ctx context.Context) (*sessionstate.Session, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/auth/session", nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session read failed: status %d", resp.StatusCode)
	}

	var payload sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}

	session := payload.toSession()
	p.mu.Lock()
	p.current = session
	p.mu.Unlock()
	return session, nil
}

func (p *apiProvider) OnAuthStateChange(callback func(sessionstate.Event, *sessionstate.Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.callbacks[id] = callback

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.callbacks, id)
	}
}

func (p *apiProvider) SignOut(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	resp.Body.Close()

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	p.emit(sessionstate.EventSignedOut, nil)
	return nil
}

func (p *apiProvider) emit(event sessionstate.Event, session *sessionstate.Session) {
	p.mu.Lock()
	callbacks := make([]func(sessionstate.Event, *sessionstate.Session), 0, len(p.callbacks))
	for _, cb := range p.callbacks {
		callbacks = append(callbacks, cb)
	}
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb(event, session)
	}
}

// token returns the access token of the current session, if any.
func (p *apiProvider) token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ""
	}
	return p.current.AccessToken
}

// apiFetcher implements sessionstate.ProfileFetcher against /profiles/me.
type apiFetcher struct {
	provider *apiProvider
}

func newAPIFetcher(provider *apiProvider) apiFetcher {
	return apiFetcher{provider: provider}
}

func (f apiFetcher) FetchProfile(ctx context.Context, userID string) (sessionstate.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.provider.baseURL+"/profiles/me", nil)
	if err != nil {
		return sessionstate.Profile{}, err
	}
	if token := f.provider.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.provider.client.Do(req)
	if err != nil {
		return sessionstate.Profile{}, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return sessionstate.Profile{}, sessionstate.ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return sessionstate.Profile{}, fmt.Errorf("profile read failed: status %d", resp.StatusCode)
	}

	var payload struct {
		ID        string  `json:"id"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		AvatarURL *string `json:"avatar_url"`
		Role      string  `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return sessionstate.Profile{}, fmt.Errorf("decode profile response: %w", err)
	}

	profile := sessionstate.Profile{ID: payload.ID, Role: payload.Role}
	if payload.FirstName != nil {
		profile.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		profile.LastName = *payload.LastName
	}
	if payload.AvatarURL != nil {
		profile.AvatarURL = *payload.AvatarURL
	}
	if profile.ID != userID {
		// Exact-match contract: never hand back a profile for a different id.
		return sessionstate.Profile{}, fmt.Errorf("profile id mismatch: got %s want %s", profile.ID, userID)
	}
	return profile, nil
}
