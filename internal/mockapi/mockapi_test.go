package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdeskmini/webclient/internal/api"
	"github.com/helpdeskmini/webclient/internal/model"
)

// tokenHolder lets one api.Client act as different accounts mid-test.
type tokenHolder struct{ token string }

func (h *tokenHolder) Token() string { return h.token }

type fixture struct {
	t       *testing.T
	client  *api.Client
	tokens  *tokenHolder
	baseURL string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(New(db, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)

	tokens := &tokenHolder{}
	return &fixture{t: t, client: api.New(srv.URL, tokens), tokens: tokens, baseURL: srv.URL}
}

// put sends a raw JSON body, for request shapes the typed client never
// produces on its own.
func (f *fixture) put(path, body string) *http.Response {
	f.t.Helper()
	req, err := http.NewRequest(http.MethodPut, f.baseURL+path, strings.NewReader(body))
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.tokens.token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// register creates an account and switches the client to it.
func (f *fixture) register(name, email string, role model.Role) model.User {
	f.t.Helper()
	resp, err := f.client.Register(context.Background(), api.Registration{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(f.t, err)
	f.tokens.token = resp.Token
	return resp.User
}

func (f *fixture) as(token string) { f.tokens.token = token }

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register("Ada Lovelace", "ada@example.com", model.RoleUser)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.True(t, u.IsActive)

	profile, err := f.client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, profile.ID)

	// Fresh login issues a new token for the same account.
	f.as("")
	resp, err := f.client.Login(ctx, "Ada@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.register("Ada", "ada@example.com", model.RoleUser)
	f.as("")

	_, err := f.client.Login(context.Background(), "ada@example.com", "wrong")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status, "failed login must not look like token expiry")
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register("Ada", "ada@example.com", model.RoleUser)

	_, err := f.client.Register(context.Background(), api.Registration{
		Name: "Imposter", Email: "ada@example.com", Password: "secret123",
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email already registered", apiErr.Message)
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Tickets(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestCreateTicketSetsDeadlineAndStatus(t *testing.T) {
	f := newFixture(t)
	f.register("Ada", "ada@example.com", model.RoleUser)

	before := time.Now()
	ticket, err := f.client.CreateTicket(context.Background(), api.CreateTicketInput{
		Title:       "Printer on fire",
		Description: "Smoke everywhere",
		Category:    model.CategoryTechnical,
		Priority:    model.PriorityMedium,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusOpen, ticket.Status)
	assert.Equal(t, "ada@example.com", ticket.CreatedBy.Email)
	assert.Nil(t, ticket.AssignedTo)
	require.NotNil(t, ticket.SLADeadline)
	remaining := ticket.SLADeadline.Sub(before)
	assert.InDelta(t, (24 * time.Hour).Hours(), remaining.Hours(), 0.1)
}

func TestTitleLimitCountsRunes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register("Ada", "ada@example.com", model.RoleUser)

	// 100 multibyte characters are within the limit even though the
	// string is well over 100 bytes.
	title := strings.Repeat("é", model.TitleMaxLen)
	ticket, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: title, Description: "d",
		Category: model.CategoryGeneral, Priority: model.PriorityLow,
	})
	require.NoError(t, err)
	assert.Equal(t, title, ticket.Title)

	_, err = f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: strings.Repeat("é", model.TitleMaxLen+1), Description: "d",
		Category: model.CategoryGeneral, Priority: model.PriorityLow,
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Title must be at most 100 characters", apiErr.Message)
}

func TestOnlyUsersCreateTickets(t *testing.T) {
	f := newFixture(t)
	f.register("Grace", "grace@example.com", model.RoleAgent)

	_, err := f.client.CreateTicket(context.Background(), api.CreateTicketInput{
		Title: "x", Description: "y",
		Category: model.CategoryGeneral, Priority: model.PriorityLow,
	})
	assert.ErrorIs(t, err, api.ErrForbidden)
}

func TestListScopingByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userA := f.register("Ada", "ada@example.com", model.RoleUser)
	tokA := f.tokens.token
	created, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "A's issue", Description: "d",
		Category: model.CategoryBug, Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	f.register("Bob", "bob@example.com", model.RoleUser)
	tokB := f.tokens.token
	_, err = f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "B's issue", Description: "d",
		Category: model.CategoryBilling, Priority: model.PriorityLow,
	})
	require.NoError(t, err)

	agent := f.register("Grace", "grace@example.com", model.RoleAgent)
	tokAgent := f.tokens.token

	f.register("Root", "root@example.com", model.RoleAdmin)
	tokAdmin := f.tokens.token

	// Admin sees everything.
	all, err := f.client.Tickets(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// The agent sees nothing until assigned.
	f.as(tokAgent)
	mine, err := f.client.Tickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)

	f.as(tokAdmin)
	_, err = f.client.Assign(ctx, created.ID, agent.ID)
	require.NoError(t, err)

	f.as(tokAgent)
	mine, err = f.client.Tickets(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	// Each user sees only their own.
	f.as(tokA)
	own, err := f.client.Tickets(ctx)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, userA.ID, own[0].CreatedBy.ID)

	// And not each other's details.
	f.as(tokB)
	_, err = f.client.Ticket(ctx, created.ID)
	assert.ErrorIs(t, err, api.ErrForbidden)
}

func TestStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register("Ada", "ada@example.com", model.RoleUser)
	ticket, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "Broken build", Description: "d",
		Category: model.CategoryTechnical, Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	// Users cannot move tickets through the lifecycle.
	_, err = f.client.UpdateStatus(ctx, ticket.ID, model.StatusResolved)
	assert.ErrorIs(t, err, api.ErrForbidden)

	f.register("Root", "root@example.com", model.RoleAdmin)

	updated, err := f.client.UpdateStatus(ctx, ticket.ID, model.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)

	// Reopening clears the resolution timestamp.
	updated, err = f.client.UpdateStatus(ctx, ticket.ID, model.StatusOpen)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, updated.Status)
	assert.Nil(t, updated.ResolvedAt)
}

func TestAssignmentRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register("Ada", "ada@example.com", model.RoleUser)
	ticket, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "t", Description: "d",
		Category: model.CategoryGeneral, Priority: model.PriorityLow,
	})
	require.NoError(t, err)

	agent := f.register("Grace", "grace@example.com", model.RoleAgent)
	tokAgent := f.tokens.token

	f.register("Root", "root@example.com", model.RoleAdmin)
	tokAdmin := f.tokens.token

	// Agents cannot assign, even to themselves.
	f.as(tokAgent)
	_, err = f.client.Assign(ctx, ticket.ID, agent.ID)
	assert.ErrorIs(t, err, api.ErrForbidden)

	// Assignment target must hold the agent role.
	f.as(tokAdmin)
	_, err = f.client.Assign(ctx, ticket.ID, user.ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Tickets can only be assigned to agents", apiErr.Message)

	updated, err := f.client.Assign(ctx, ticket.ID, agent.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, agent.ID, updated.AssignedTo.ID)

	// Explicit null unassigns.
	updated, err = f.client.Assign(ctx, ticket.ID, "")
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
}

func TestUpdateIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register("Ada", "ada@example.com", model.RoleUser)
	ticket, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "t", Description: "d",
		Category: model.CategoryGeneral, Priority: model.PriorityLow,
	})
	require.NoError(t, err)

	f.register("Root", "root@example.com", model.RoleAdmin)

	// A body carrying a valid status and an invalid assignee must apply
	// neither change.
	resp := f.put("/tickets/"+ticket.ID, `{"status":"resolved","assignedTo":"`+user.ID+`"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	after, err := f.client.Ticket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, after.Status)
	assert.Nil(t, after.ResolvedAt)
	assert.Nil(t, after.AssignedTo)

	// Both valid fields in one body apply together.
	agent := f.register("Grace", "grace@example.com", model.RoleAgent)
	f.register("Root2", "root2@example.com", model.RoleAdmin)
	resp = f.put("/tickets/"+ticket.ID, `{"status":"pending","assignedTo":"`+agent.ID+`"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	after, err = f.client.Ticket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, after.Status)
	require.NotNil(t, after.AssignedTo)
	assert.Equal(t, agent.ID, after.AssignedTo.ID)
}

func TestInternalCommentsHiddenFromUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register("Ada", "ada@example.com", model.RoleUser)
	tokUser := f.tokens.token
	ticket, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "t", Description: "d",
		Category: model.CategoryGeneral, Priority: model.PriorityLow,
	})
	require.NoError(t, err)

	// The creator cannot flag a comment internal.
	err = f.client.AddComment(ctx, ticket.ID, "sneaky", true)
	assert.ErrorIs(t, err, api.ErrForbidden)

	require.NoError(t, f.client.AddComment(ctx, ticket.ID, "please help", false))

	f.register("Root", "root@example.com", model.RoleAdmin)
	require.NoError(t, f.client.AddComment(ctx, ticket.ID, "customer is on the gold plan", true))
	require.NoError(t, f.client.AddComment(ctx, ticket.ID, "looking into it", false))

	// Staff see the whole thread.
	full, err := f.client.Ticket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, full.Comments, 3)

	// The creator sees only the public part, in order.
	f.as(tokUser)
	visible, err := f.client.Ticket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, visible.Comments, 2)
	assert.Equal(t, "please help", visible.Comments[0].Text)
	assert.Equal(t, "looking into it", visible.Comments[1].Text)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register("Ada", "ada@example.com", model.RoleUser)
	t1, err := f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "one", Description: "d",
		Category: model.CategoryBug, Priority: model.PriorityUrgent,
	})
	require.NoError(t, err)
	_, err = f.client.CreateTicket(ctx, api.CreateTicketInput{
		Title: "two", Description: "d",
		Category: model.CategoryBilling, Priority: model.PriorityLow,
	})
	require.NoError(t, err)

	// Stats are staff only.
	_, err = f.client.DashboardStats(ctx)
	assert.ErrorIs(t, err, api.ErrForbidden)

	f.register("Root", "root@example.com", model.RoleAdmin)
	_, err = f.client.UpdateStatus(ctx, t1.ID, model.StatusResolved)
	require.NoError(t, err)

	stats, err := f.client.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTickets)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 1, stats.ResolvedTickets)
	assert.Equal(t, 100, stats.SLAComplianceRate, "resolved well inside its window")
	assert.Contains(t, stats.PriorityStats, model.StatBucket{ID: "urgent", Count: 1})
	assert.Contains(t, stats.StatusStats, model.StatBucket{ID: "resolved", Count: 1})
}

func TestUserDirectoryAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register("Ada", "ada@example.com", model.RoleUser)
	_, err := f.client.Users(ctx)
	assert.ErrorIs(t, err, api.ErrForbidden)

	f.register("Root", "root@example.com", model.RoleAdmin)
	users, err := f.client.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
