package session

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdeskmini/webclient/internal/model"
)

// mapStorage mimics go-app's local storage, JSON round trip included.
type mapStorage map[string][]byte

func (s mapStorage) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s[key] = raw
	return nil
}

func (s mapStorage) Get(key string, v any) error {
	raw, ok := s[key]
	if !ok {
		return errors.New("not found")
	}
	return json.Unmarshal(raw, v)
}

func (s mapStorage) Del(key string) { delete(s, key) }

func TestLoginLifecycle(t *testing.T) {
	m := New(mapStorage{})
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, m.Token())
	assert.False(t, m.Authenticated())

	m.Begin()
	assert.Equal(t, StateAuthenticating, m.State())

	require.NoError(t, m.Establish("tok-1", model.User{ID: "u1", Name: "Ada", Role: model.RoleUser}))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "tok-1", m.Token())
	require.NotNil(t, m.Profile())
	assert.Equal(t, "Ada", m.Profile().Name)
}

func TestFailedLoginReturnsToAnonymous(t *testing.T) {
	m := New(mapStorage{})
	m.Begin()
	m.Fail()
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, m.Token())
}

func TestRestoreFromStorage(t *testing.T) {
	store := mapStorage{}
	first := New(store)
	require.NoError(t, first.Establish("tok-2", model.User{ID: "u1"}))

	// A reload builds a fresh manager over the same storage.
	second := New(store)
	assert.Equal(t, StateAuthenticated, second.State())
	assert.Equal(t, "tok-2", second.Token())
	assert.Nil(t, second.Profile(), "profile is not persisted, only the token")
}

func TestExpireClearsEverything(t *testing.T) {
	store := mapStorage{}
	m := New(store)
	require.NoError(t, m.Establish("tok-3", model.User{ID: "u1"}))

	m.Expire()
	assert.Equal(t, StateExpired, m.State())
	assert.Empty(t, m.Token())
	assert.Nil(t, m.Profile())
	assert.Empty(t, store, "token removed from storage")

	m.Reset()
	assert.Equal(t, StateAnonymous, m.State())
}

func TestLogoutClearsEverything(t *testing.T) {
	store := mapStorage{}
	m := New(store)
	require.NoError(t, m.Establish("tok-4", model.User{ID: "u1"}))

	m.Logout()
	assert.Equal(t, StateLoggedOut, m.State())
	assert.Empty(t, m.Token())
	assert.Empty(t, store)

	m.Reset()
	assert.Equal(t, StateAnonymous, m.State())
}

func TestResetOnlyFromTerminalStates(t *testing.T) {
	m := New(mapStorage{})
	require.NoError(t, m.Establish("tok-5", model.User{ID: "u1"}))

	// Reset on an authenticated session is a no-op; only expired or
	// logged-out sessions cycle back to anonymous.
	m.Reset()
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "tok-5", m.Token())
}
