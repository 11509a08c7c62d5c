// Package mockapi is a local stand-in for the remote helpdesk backend,
// used when developing or testing the client without the real API. It
// implements the same wire surface under /api, including the server-side
// enforcement the client's display policy mirrors. It is a development
// fixture, not the product.
package mockapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/helpdeskmini/webclient/internal/model"
)

// Server owns the sqlite handle behind the mock API.
type Server struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// New builds a mock API over an opened database.
func New(db *sql.DB, logger *zap.Logger) *Server {
	return &Server{db: db, log: logger, now: time.Now}
}

// Handler returns the router for the full API surface. Mount it at /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/profile", s.handleProfile)
		r.Get("/tickets", s.handleListTickets)
		r.Post("/tickets", s.handleCreateTicket)
		r.Get("/tickets/dashboard/stats", s.handleStats)
		r.Get("/tickets/{id}", s.handleGetTicket)
		r.Put("/tickets/{id}", s.handleUpdateTicket)
		r.Post("/tickets/{id}/comments", s.handleAddComment)
		r.Get("/users", s.handleListUsers)
	})

	return r
}

type contextKey string

const callerKey contextKey = "caller"

// requireAuth resolves the bearer token to an account and rejects the
// request with a 401 otherwise, which is the signal the client's session
// machine treats as expiry.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var u model.User
		var createdAt string
		err := s.db.QueryRow(
			`SELECT u.id, u.name, u.email, u.role, u.is_active, u.created_at
			 FROM tokens t JOIN users u ON u.id = t.user_id
			 WHERE t.token = ?`, token,
		).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &createdAt)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		u.CreatedAt = parseTime(createdAt)

		ctx := context.WithValue(r.Context(), callerKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func caller(r *http.Request) model.User {
	u, _ := r.Context().Value(callerKey).(model.User)
	return u
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the {"message": ...} body the client's error mapping
// reads.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
