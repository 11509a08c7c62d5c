package mockapi

import (
	"math"
	"net/http"

	"github.com/helpdeskmini/webclient/internal/model"
	"github.com/helpdeskmini/webclient/internal/policy"
)

// handleStats computes the dashboard aggregates. The real backend's
// formulas are unspecified; these are the mock's definitions:
// avgResolutionTime is the mean minutes from creation to resolution over
// resolved tickets, slaComplianceRate the share of resolved tickets that
// beat their deadline (no deadline counts as compliant).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	if !policy.CanViewStats(u.Role) {
		writeError(w, http.StatusForbidden, "Dashboard stats are restricted to support staff")
		return
	}

	stats := model.DashboardStats{
		PriorityStats: []model.StatBucket{},
		StatusStats:   []model.StatBucket{},
	}

	statusCounts := map[string]int{}
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM tickets GROUP BY status")
	if err != nil {
		s.internalError(w, "count by status", err)
		return
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			s.internalError(w, "scan status count", err)
			return
		}
		statusCounts[status] = count
		stats.TotalTickets += count
	}
	rows.Close()

	stats.OpenTickets = statusCounts[string(model.StatusOpen)]
	stats.PendingTickets = statusCounts[string(model.StatusPending)]
	stats.ResolvedTickets = statusCounts[string(model.StatusResolved)]
	for _, status := range model.Statuses() {
		if c := statusCounts[string(status)]; c > 0 {
			stats.StatusStats = append(stats.StatusStats, model.StatBucket{ID: string(status), Count: c})
		}
	}

	rows, err = s.db.Query("SELECT priority, COUNT(*) FROM tickets GROUP BY priority")
	if err != nil {
		s.internalError(w, "count by priority", err)
		return
	}
	priorityCounts := map[string]int{}
	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			rows.Close()
			s.internalError(w, "scan priority count", err)
			return
		}
		priorityCounts[priority] = count
	}
	rows.Close()
	for _, p := range model.Priorities() {
		if c := priorityCounts[string(p)]; c > 0 {
			stats.PriorityStats = append(stats.PriorityStats, model.StatBucket{ID: string(p), Count: c})
		}
	}

	rows, err = s.db.Query("SELECT created_at, sla_deadline, resolved_at FROM tickets WHERE resolved_at IS NOT NULL")
	if err != nil {
		s.internalError(w, "load resolved tickets", err)
		return
	}
	defer rows.Close()

	var resolved, compliant int
	var totalMinutes float64
	for rows.Next() {
		var createdAt, resolvedAt string
		var deadline *string
		if err := rows.Scan(&createdAt, &deadline, &resolvedAt); err != nil {
			s.internalError(w, "scan resolved ticket", err)
			return
		}
		created := parseTime(createdAt)
		done := parseTime(resolvedAt)
		resolved++
		totalMinutes += done.Sub(created).Minutes()
		if deadline == nil || !done.After(parseTime(*deadline)) {
			compliant++
		}
	}

	if resolved > 0 {
		stats.AvgResolutionTime = int(math.Round(totalMinutes / float64(resolved)))
		stats.SLAComplianceRate = int(math.Round(float64(compliant) / float64(resolved) * 100))
	} else {
		stats.SLAComplianceRate = 100
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleListUsers serves the directory used for assignment and the
// user-management screen. Staff only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	if u.Role != model.RoleAgent && u.Role != model.RoleAdmin {
		writeError(w, http.StatusForbidden, "User directory is restricted to support staff")
		return
	}

	rows, err := s.db.Query("SELECT id, name, email, role, is_active, created_at FROM users ORDER BY created_at ASC")
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var usr model.User
		var createdAt string
		if err := rows.Scan(&usr.ID, &usr.Name, &usr.Email, &usr.Role, &usr.IsActive, &createdAt); err != nil {
			s.internalError(w, "scan user", err)
			return
		}
		usr.CreatedAt = parseTime(createdAt)
		users = append(users, usr)
	}
	writeJSON(w, http.StatusOK, users)
}
