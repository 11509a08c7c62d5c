// Package policy is the single role-visibility table consulted by every
// screen. It decides what the client renders; whether an action actually
// succeeds is always the backend's call, so a hidden button is a usability
// convenience, not authorization.
package policy

import "github.com/helpdeskmini/webclient/internal/model"

// SafeRoute is where a role-guarded page sends visitors it rejects.
const SafeRoute = "/tickets"

func isStaff(r model.Role) bool {
	return r == model.RoleAgent || r == model.RoleAdmin
}

// CanCreateTicket: only plain users open tickets; staff work them.
func CanCreateTicket(r model.Role) bool {
	return r == model.RoleUser
}

// CanChangeStatus: agents and admins move tickets through the lifecycle.
func CanChangeStatus(r model.Role) bool {
	return isStaff(r)
}

// CanAssign: only admins hand tickets to agents.
func CanAssign(r model.Role) bool {
	return r == model.RoleAdmin
}

// CanComment: staff comment anywhere; a user only on their own ticket.
func CanComment(r model.Role, isCreator bool) bool {
	if isStaff(r) {
		return true
	}
	return r == model.RoleUser && isCreator
}

// CanPostInternal: internal notes are staff-only.
func CanPostInternal(r model.Role) bool {
	return isStaff(r)
}

// CanSeeInternal: internal notes are never shown to user-role viewers,
// including the ticket's creator.
func CanSeeInternal(r model.Role) bool {
	return isStaff(r)
}

// CanViewStats: the aggregate dashboard is staff-only; users get counts
// derived from their own ticket list instead.
func CanViewStats(r model.Role) bool {
	return isStaff(r)
}

// SeesAssignee: the assignee column is staff detail; users see only their
// own tickets, where it carries no signal.
func SeesAssignee(r model.Role) bool {
	return isStaff(r)
}

// CanManageUsers: the user-management screen is admin-only.
func CanManageUsers(r model.Role) bool {
	return r == model.RoleAdmin
}

// VisibleComments returns the comments the viewer may see, preserving
// order. The backend already filters for user-role callers; this runs
// again client-side so a stale or overly generous payload still renders
// correctly.
func VisibleComments(r model.Role, comments []model.Comment) []model.Comment {
	if CanSeeInternal(r) {
		return comments
	}
	out := make([]model.Comment, 0, len(comments))
	for _, c := range comments {
		if !c.IsInternal {
			out = append(out, c)
		}
	}
	return out
}

// RouteAllowed reports whether the role may enter the route at all. Pages
// not listed here are open to every authenticated role; denied visitors
// are redirected to SafeRoute rather than shown a partial view.
func RouteAllowed(r model.Role, path string) bool {
	switch path {
	case "/users":
		return CanManageUsers(r)
	case "/tickets/create":
		return CanCreateTicket(r)
	}
	return true
}
