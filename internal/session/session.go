// Package session models the authenticated-session lifecycle shared by the
// whole client: anonymous -> authenticating -> authenticated ->
// (expired | logged_out) -> anonymous. A single Manager is the only writer
// of auth state; views read from it and never mutate tokens themselves.
package session

import (
	"sync"

	"github.com/helpdeskmini/webclient/internal/model"
)

const tokenKey = "helpdesk.token"

// State is the lifecycle position of the session.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateExpired        State = "expired"
	StateLoggedOut      State = "logged_out"
)

// Storage persists the token across reloads. go-app's browser local
// storage satisfies it in the wasm build; tests use an in-memory map.
type Storage interface {
	Set(key string, v any) error
	Get(key string, v any) error
	Del(key string)
}

// Manager holds the token and the fetched profile for the life of the tab.
// The mutex matters because async fetch goroutines read the token while
// the UI goroutine drives transitions.
type Manager struct {
	mu      sync.Mutex
	storage Storage
	state   State
	token   string
	profile *model.User
}

// New restores any persisted token, so a reload re-enters the
// authenticated state pending a profile re-fetch rather than bouncing the
// visitor back to login.
func New(storage Storage) *Manager {
	m := &Manager{storage: storage, state: StateAnonymous}
	var token string
	if err := storage.Get(tokenKey, &token); err == nil && token != "" {
		m.token = token
		m.state = StateAuthenticated
	}
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the held credential, empty when signed out. Satisfies the
// API client's token source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Profile returns the cached profile, nil until fetched.
func (m *Manager) Profile() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Authenticated reports whether a credential is held.
func (m *Manager) Authenticated() bool {
	return m.State() == StateAuthenticated
}

// Begin marks a credential as submitted and awaiting the server's verdict.
func (m *Manager) Begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAuthenticating
}

// Fail returns to anonymous after a rejected login or registration.
func (m *Manager) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateAnonymous
}

// Establish stores the issued token and profile and persists the token.
func (m *Manager) Establish(token string, profile model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.profile = &profile
	m.state = StateAuthenticated
	return m.storage.Set(tokenKey, token)
}

// SetProfile caches the profile fetched after a reload.
func (m *Manager) SetProfile(profile model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = &profile
}

// Expire is the forced transition taken when any response reports the
// credential invalid. Clears everything the token derived.
func (m *Manager) Expire() {
	m.clear(StateExpired)
}

// Logout is the user-initiated twin of Expire; same cleanup, different
// resulting state.
func (m *Manager) Logout() {
	m.clear(StateLoggedOut)
}

// Reset completes the cycle back to anonymous. The login page calls it on
// mount so a fresh sign-in starts clean.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateExpired || m.state == StateLoggedOut {
		m.state = StateAnonymous
	}
}

func (m *Manager) clear(next State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.profile = nil
	m.state = next
	m.storage.Del(tokenKey)
}
