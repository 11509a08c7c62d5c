package mockapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// slaWindow is how long each priority gets before its deadline. The real
// backend computes this at creation; the windows here only need to be
// plausible for development.
func slaWindow(p model.TicketPriority) time.Duration {
	switch p {
	case model.PriorityUrgent:
		return 2 * time.Hour
	case model.PriorityHigh:
		return 8 * time.Hour
	case model.PriorityMedium:
		return 24 * time.Hour
	default:
		return 48 * time.Hour
	}
}

const ticketColumns = `
	t.id, t.title, t.description, t.category, t.priority, t.status,
	t.sla_deadline, t.created_at, t.resolved_at,
	c.id, c.name, c.email, c.role, c.is_active, c.created_at,
	a.id, a.name, a.email, a.role, a.is_active, a.created_at`

const ticketFrom = `
	FROM tickets t
	JOIN users c ON c.id = t.created_by
	LEFT JOIN users a ON a.id = t.assigned_to`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (model.Ticket, error) {
	var t model.Ticket
	var deadline, resolvedAt sql.NullString
	var createdAt, creatorCreatedAt string
	var asgID, asgName, asgEmail, asgRole, asgCreatedAt sql.NullString
	var asgActive sql.NullBool

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status,
		&deadline, &createdAt, &resolvedAt,
		&t.CreatedBy.ID, &t.CreatedBy.Name, &t.CreatedBy.Email, &t.CreatedBy.Role, &t.CreatedBy.IsActive, &creatorCreatedAt,
		&asgID, &asgName, &asgEmail, &asgRole, &asgActive, &asgCreatedAt,
	)
	if err != nil {
		return model.Ticket{}, err
	}

	t.SLADeadline = parseTimePtr(deadline)
	t.CreatedAt = parseTime(createdAt)
	t.ResolvedAt = parseTimePtr(resolvedAt)
	t.CreatedBy.CreatedAt = parseTime(creatorCreatedAt)

	if asgID.Valid {
		t.AssignedTo = &model.User{
			ID:        asgID.String,
			Name:      asgName.String,
			Email:     asgEmail.String,
			Role:      model.Role(asgRole.String),
			IsActive:  asgActive.Bool,
			CreatedAt: parseTime(asgCreatedAt.String),
		}
	}
	return t, nil
}

// visibleTo is the server-side ticket visibility rule: users see what they
// created, agents what they are assigned, admins everything.
func visibleTo(u model.User, t model.Ticket) bool {
	switch u.Role {
	case model.RoleAdmin:
		return true
	case model.RoleAgent:
		return t.AssignedTo != nil && t.AssignedTo.ID == u.ID
	default:
		return t.CreatedBy.ID == u.ID
	}
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	u := caller(r)

	query := "SELECT" + ticketColumns + ticketFrom
	var args []any
	switch u.Role {
	case model.RoleAdmin:
	case model.RoleAgent:
		query += " WHERE t.assigned_to = ?"
		args = append(args, u.ID)
	default:
		query += " WHERE t.created_by = ?"
		args = append(args, u.ID)
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.internalError(w, "list tickets", err)
		return
	}
	defer rows.Close()

	tickets := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			s.internalError(w, "scan ticket", err)
			return
		}
		tickets = append(tickets, t)
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	t, err := s.loadTicket(chi.URLParam(r, "id"), u)
	if err != nil {
		s.writeTicketError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	if !policy.CanCreateTicket(u.Role) {
		writeError(w, http.StatusForbidden, "Only users can create tickets")
		return
	}

	var req struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		Category    model.TicketCategory `json:"category"`
		Priority    model.TicketPriority `json:"priority"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Title and description are required")
		return
	}
	// Runes, not bytes: the client counts characters the same way.
	if utf8.RuneCountInString(req.Title) > model.TitleMaxLen {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Title must be at most %d characters", model.TitleMaxLen))
		return
	}
	if !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown category")
		return
	}
	if !req.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown priority")
		return
	}

	now := s.now().UTC()
	deadline := now.Add(slaWindow(req.Priority))
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO tickets (id, title, description, category, priority, status, created_by, sla_deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, 'open', ?, ?, ?)`,
		id, req.Title, req.Description, string(req.Category), string(req.Priority), u.ID, timeStr(deadline), timeStr(now),
	)
	if err != nil {
		s.internalError(w, "insert ticket", err)
		return
	}

	t, err := s.loadTicket(id, u)
	if err != nil {
		s.writeTicketError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	id := chi.URLParam(r, "id")

	// Field presence matters: {"assignedTo": null} unassigns, while a
	// body without the key leaves assignment alone.
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := s.loadTicket(id, u)
	if err != nil {
		s.writeTicketError(w, err)
		return
	}

	// Validate everything before the first write so a bad field cannot
	// leave a half-applied update behind.
	var newStatus *model.TicketStatus
	if raw, ok := fields["status"]; ok {
		if !policy.CanChangeStatus(u.Role) {
			writeError(w, http.StatusForbidden, "Only support staff can change ticket status")
			return
		}
		var status model.TicketStatus
		if err := json.Unmarshal(raw, &status); err != nil || !status.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown status")
			return
		}
		newStatus = &status
	}

	var agentID *string
	setAssignee := false
	if raw, ok := fields["assignedTo"]; ok {
		if !policy.CanAssign(u.Role) {
			writeError(w, http.StatusForbidden, "Only admins can assign tickets")
			return
		}
		if err := json.Unmarshal(raw, &agentID); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid assignee")
			return
		}
		if agentID != nil {
			if err := s.checkAgent(*agentID); err != nil {
				writeError(w, http.StatusBadRequest, "Tickets can only be assigned to agents")
				return
			}
		}
		setAssignee = true
	}

	if newStatus != nil {
		if err := s.updateStatus(t, *newStatus); err != nil {
			s.internalError(w, "update status", err)
			return
		}
	}
	if setAssignee {
		if err := s.assign(t.ID, agentID); err != nil {
			s.internalError(w, "assign ticket", err)
			return
		}
	}

	updated, err := s.loadTicket(id, u)
	if err != nil {
		s.writeTicketError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) updateStatus(t model.Ticket, status model.TicketStatus) error {
	var resolvedAt any
	switch {
	case status == model.StatusResolved:
		resolvedAt = timeStr(s.now())
	case t.ResolvedAt != nil && (status == model.StatusOpen || status == model.StatusPending):
		resolvedAt = nil // reopened
	case t.ResolvedAt != nil:
		resolvedAt = timeStr(*t.ResolvedAt)
	}
	_, err := s.db.Exec("UPDATE tickets SET status = ?, resolved_at = ? WHERE id = ?",
		string(status), resolvedAt, t.ID)
	return err
}

var errNotAgent = errors.New("assignee is not an agent")

// checkAgent verifies the account exists and holds the agent role.
func (s *Server) checkAgent(id string) error {
	var role string
	if err := s.db.QueryRow("SELECT role FROM users WHERE id = ?", id).Scan(&role); err != nil {
		return errNotAgent
	}
	if model.Role(role) != model.RoleAgent {
		return errNotAgent
	}
	return nil
}

func (s *Server) assign(ticketID string, agentID *string) error {
	if agentID == nil {
		_, err := s.db.Exec("UPDATE tickets SET assigned_to = NULL WHERE id = ?", ticketID)
		return err
	}
	_, err := s.db.Exec("UPDATE tickets SET assigned_to = ? WHERE id = ?", *agentID, ticketID)
	return err
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	t, err := s.loadTicket(chi.URLParam(r, "id"), u)
	if err != nil {
		s.writeTicketError(w, err)
		return
	}

	var req struct {
		Text       string `json:"text"`
		IsInternal bool   `json:"isInternal"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Comment text is required")
		return
	}
	if !policy.CanComment(u.Role, t.CreatedBy.ID == u.ID) {
		writeError(w, http.StatusForbidden, "You cannot comment on this ticket")
		return
	}
	if req.IsInternal && !policy.CanPostInternal(u.Role) {
		writeError(w, http.StatusForbidden, "Internal comments are restricted to support staff")
		return
	}

	comment := model.Comment{
		ID:         newID(),
		User:       u,
		Text:       req.Text,
		IsInternal: req.IsInternal,
		CreatedAt:  s.now().UTC(),
	}
	_, err = s.db.Exec(
		"INSERT INTO comments (id, ticket_id, user_id, text, is_internal, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		comment.ID, t.ID, u.ID, comment.Text, comment.IsInternal, timeStr(comment.CreatedAt),
	)
	if err != nil {
		s.internalError(w, "insert comment", err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

var (
	errNotFound  = errors.New("ticket not found")
	errForbidden = errors.New("ticket not visible")
)

// loadTicket fetches a ticket with its thread, enforcing visibility and
// stripping internal comments for user-role viewers.
func (s *Server) loadTicket(id string, viewer model.User) (model.Ticket, error) {
	row := s.db.QueryRow("SELECT"+ticketColumns+ticketFrom+" WHERE t.id = ?", id)
	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, errNotFound
	}
	if err != nil {
		return model.Ticket{}, err
	}
	if !visibleTo(viewer, t) {
		return model.Ticket{}, errForbidden
	}

	rows, err := s.db.Query(
		`SELECT c.id, c.text, c.is_internal, c.created_at,
		        u.id, u.name, u.email, u.role, u.is_active, u.created_at
		 FROM comments c JOIN users u ON u.id = c.user_id
		 WHERE c.ticket_id = ? ORDER BY c.created_at ASC`, id)
	if err != nil {
		return model.Ticket{}, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		var createdAt, userCreatedAt string
		if err := rows.Scan(
			&c.ID, &c.Text, &c.IsInternal, &createdAt,
			&c.User.ID, &c.User.Name, &c.User.Email, &c.User.Role, &c.User.IsActive, &userCreatedAt,
		); err != nil {
			return model.Ticket{}, err
		}
		c.CreatedAt = parseTime(createdAt)
		c.User.CreatedAt = parseTime(userCreatedAt)
		comments = append(comments, c)
	}
	t.Comments = policy.VisibleComments(viewer.Role, comments)
	return t, nil
}

func (s *Server) writeTicketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, "You do not have access to this ticket")
	default:
		s.internalError(w, "load ticket", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
