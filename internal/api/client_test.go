package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdeskmini/webclient/internal/model"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Ticket{})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("abc123"))
	_, err := c.Tickets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestNoHeaderWhenAnonymous(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(AuthResponse{Token: "issued"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedFiresHookAndSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("stale"))
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	_, err := c.Tickets(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, fired)
}

func TestForbiddenSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	fired := false
	c.OnUnauthorized(func() { fired = true })

	_, err := c.DashboardStats(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, fired, "403 must not trigger the expiry hook")
}

func TestErrorMessageExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""))
	_, err := c.Login(context.Background(), "a@b.c", "wrong")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestErrorMessageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))
	_, err := c.Tickets(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed", apiErr.Message)
}

func TestAssignPayload(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(model.Ticket{ID: "t1"})
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"))

	_, err := c.Assign(context.Background(), "t1", "agent-9")
	require.NoError(t, err)
	assert.Equal(t, "agent-9", gotBody["assignedTo"])

	_, err = c.Assign(context.Background(), "t1", "")
	require.NoError(t, err)
	val, present := gotBody["assignedTo"]
	assert.True(t, present, "unassign sends an explicit null, not an absent key")
	assert.Nil(t, val)
}

func TestBaseTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(model.User{})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", staticToken("tok"))
	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/auth/profile", gotPath)
}
