package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdeskmini/webclient/internal/model"
)

func TestAffordancesByRole(t *testing.T) {
	tests := []struct {
		name string
		fn   func(model.Role) bool
		user bool
		agnt bool
		admn bool
	}{
		{"create ticket", CanCreateTicket, true, false, false},
		{"change status", CanChangeStatus, false, true, true},
		{"assign", CanAssign, false, false, true},
		{"post internal", CanPostInternal, false, true, true},
		{"see internal", CanSeeInternal, false, true, true},
		{"view stats", CanViewStats, false, true, true},
		{"manage users", CanManageUsers, false, false, true},
		{"sees assignee", SeesAssignee, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.user, tt.fn(model.RoleUser), "user")
			assert.Equal(t, tt.agnt, tt.fn(model.RoleAgent), "agent")
			assert.Equal(t, tt.admn, tt.fn(model.RoleAdmin), "admin")
		})
	}
}

func TestCanComment(t *testing.T) {
	assert.True(t, CanComment(model.RoleUser, true))
	assert.False(t, CanComment(model.RoleUser, false))
	assert.True(t, CanComment(model.RoleAgent, false))
	assert.True(t, CanComment(model.RoleAdmin, false))
}

func TestVisibleComments(t *testing.T) {
	comments := []model.Comment{
		{ID: "1", Text: "public one"},
		{ID: "2", Text: "internal note", IsInternal: true},
		{ID: "3", Text: "public two"},
	}

	// The creator's role is user; internal notes stay hidden even from them.
	got := VisibleComments(model.RoleUser, comments)
	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Len(t, VisibleComments(model.RoleAgent, comments), 3)
	assert.Len(t, VisibleComments(model.RoleAdmin, comments), 3)
	assert.Empty(t, VisibleComments(model.RoleUser, nil))
}

func TestRouteAllowed(t *testing.T) {
	assert.False(t, RouteAllowed(model.RoleUser, "/users"))
	assert.False(t, RouteAllowed(model.RoleAgent, "/users"))
	assert.True(t, RouteAllowed(model.RoleAdmin, "/users"))

	assert.True(t, RouteAllowed(model.RoleUser, "/tickets/create"))
	assert.False(t, RouteAllowed(model.RoleAgent, "/tickets/create"))
	assert.False(t, RouteAllowed(model.RoleAdmin, "/tickets/create"))

	for _, r := range []model.Role{model.RoleUser, model.RoleAgent, model.RoleAdmin} {
		assert.True(t, RouteAllowed(r, "/tickets"))
		assert.True(t, RouteAllowed(r, "/dashboard"))
	}
}
