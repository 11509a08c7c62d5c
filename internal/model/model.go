// Package model holds the wire types exchanged with the helpdesk API.
// JSON field names follow the backend exactly, including its Mongo-style
// `_id` keys, so entities round-trip without mapping layers.
package model

import "time"

// Role enumerates the account roles known to the backend.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the backend accepts at registration.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// TicketStatus enumerates ticket lifecycle states.
type TicketStatus string

const (
	StatusOpen     TicketStatus = "open"
	StatusPending  TicketStatus = "pending"
	StatusResolved TicketStatus = "resolved"
	StatusClosed   TicketStatus = "closed"
)

// Statuses lists all ticket statuses in display order.
func Statuses() []TicketStatus {
	return []TicketStatus{StatusOpen, StatusPending, StatusResolved, StatusClosed}
}

// Valid reports whether the status is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusPending, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency levels.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// Priorities lists all priorities in display order.
func Priorities() []TicketPriority {
	return []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether the priority is a known level.
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TicketCategory enumerates request categories.
type TicketCategory string

const (
	CategoryTechnical TicketCategory = "technical"
	CategoryBilling   TicketCategory = "billing"
	CategoryGeneral   TicketCategory = "general"
	CategoryFeature   TicketCategory = "feature-request"
	CategoryBug       TicketCategory = "bug"
)

// Categories lists all categories in display order.
func Categories() []TicketCategory {
	return []TicketCategory{CategoryTechnical, CategoryBilling, CategoryGeneral, CategoryFeature, CategoryBug}
}

// Valid reports whether the category is one the backend accepts.
func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBilling, CategoryGeneral, CategoryFeature, CategoryBug:
		return true
	}
	return false
}

// TitleMaxLen is the backend's limit on ticket titles.
const TitleMaxLen = 100

// User is an account as returned by the backend. Role is set at
// registration and never changed from the client.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a single entry in a ticket's thread. Internal comments are
// visible to support staff only; the backend already strips them for
// user-role callers and the client filters again before rendering.
type Comment struct {
	ID         string    `json:"_id"`
	User       User      `json:"user"`
	Text       string    `json:"text"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Ticket is the support-request aggregate. SLADeadline is computed by the
// backend at creation time; a nil deadline means no SLA is tracked.
type Ticket struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	CreatedBy   User           `json:"createdBy"`
	AssignedTo  *User          `json:"assignedTo"`
	SLADeadline *time.Time     `json:"slaDeadline"`
	CreatedAt   time.Time      `json:"createdAt"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	Comments    []Comment      `json:"comments,omitempty"`
}

// StatBucket is one row of a grouped count, keyed the way the backend's
// aggregation pipeline emits it.
type StatBucket struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// DashboardStats are server-computed aggregates. The client treats every
// figure as opaque and never recomputes them locally.
type DashboardStats struct {
	TotalTickets      int          `json:"totalTickets"`
	OpenTickets       int          `json:"openTickets"`
	PendingTickets    int          `json:"pendingTickets"`
	ResolvedTickets   int          `json:"resolvedTickets"`
	AvgResolutionTime int          `json:"avgResolutionTime"`
	SLAComplianceRate int          `json:"slaComplianceRate"`
	PriorityStats     []StatBucket `json:"priorityStats"`
	StatusStats       []StatBucket `json:"statusStats"`
}
