// Package api is the REST client for the remote helpdesk backend. It is
// the only piece of the client that talks to the network; views call it
// from ctx.Async and apply results through ctx.Dispatch.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/helpdeskmini/webclient/internal/model"
)

// Sentinel errors for the two auth failure classes the UI routes on.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
)

// Error is any other non-2xx response, carrying the backend's message
// field when it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// TokenSource supplies the bearer token attached to every request. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks to the helpdesk API under a base path such as "/api".
type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// New builds a client. The base may be origin-relative in the browser.
func New(base string, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   http.DefaultClient,
		tokens: tokens,
	}
}

// OnUnauthorized registers the hook fired on any 401 anywhere, before the
// error is returned. The app wires it to session expiry plus a hard
// redirect to the login screen.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body. Role is chosen at signup and
// immutable afterwards.
type Registration struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// AuthResponse is the issued token plus the profile it belongs to.
type AuthResponse struct {
	Token string `json:"token"`
	model.User
}

// CreateTicketInput is the new-ticket request body.
type CreateTicketInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    model.TicketCategory `json:"category"`
	Priority    model.TicketPriority `json:"priority"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", Credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the account behind the held token. Used after a reload
// to re-enter the authenticated state.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tickets lists tickets; the backend scopes the result by the caller's
// role, so the client never filters by ownership.
func (c *Client) Tickets(ctx context.Context) ([]model.Ticket, error) {
	var out []model.Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ticket fetches one ticket with its comment thread.
func (c *Client) Ticket(ctx context.Context, id string) (*model.Ticket, error) {
	var out model.Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTicket submits a new ticket; the backend fills in status, SLA
// deadline and timestamps.
func (c *Client) CreateTicket(ctx context.Context, in CreateTicketInput) (*model.Ticket, error) {
	var out model.Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus moves a ticket through its lifecycle and returns the
// refreshed ticket.
func (c *Client) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) (*model.Ticket, error) {
	body := struct {
		Status model.TicketStatus `json:"status"`
	}{Status: status}
	var out model.Ticket
	if err := c.do(ctx, http.MethodPut, "/tickets/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Assign hands the ticket to an agent; an empty agentID unassigns, sent
// as an explicit null the way the backend expects.
func (c *Client) Assign(ctx context.Context, id, agentID string) (*model.Ticket, error) {
	body := struct {
		AssignedTo *string `json:"assignedTo"`
	}{}
	if agentID != "" {
		body.AssignedTo = &agentID
	}
	var out model.Ticket
	if err := c.do(ctx, http.MethodPut, "/tickets/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddComment posts to the ticket's thread. The response is discarded;
// callers refetch the whole ticket, which is the client's only
// consistency mechanism after a mutation.
func (c *Client) AddComment(ctx context.Context, id, text string, internal bool) error {
	body := struct {
		Text       string `json:"text"`
		IsInternal bool   `json:"isInternal"`
	}{Text: text, IsInternal: internal}
	return c.do(ctx, http.MethodPost, "/tickets/"+id+"/comments", body, nil)
}

// DashboardStats fetches the staff-only aggregates. Opaque values; the
// client renders them as-is.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/tickets/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users fetches the staff directory.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode >= 300:
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the backend's message field, falling back to a
// generic string when the body has none.
func errorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil && body.Message != "" {
		return body.Message
	}
	return "request failed"
}
