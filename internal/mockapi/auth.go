package mockapi

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/helpdeskmini/webclient/internal/model"
)

type authResponse struct {
	Token string `json:"token"`
	model.User
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string     `json:"name"`
		Email    string     `json:"email"`
		Password string     `json:"password"`
		Role     model.Role `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown role")
		return
	}

	var exists bool
	s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", req.Email).Scan(&exists)
	if exists {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, "hash password", err)
		return
	}

	u := model.User{
		ID:        newID(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.Exec(
		"INSERT INTO users (id, name, email, password_hash, role, is_active, created_at) VALUES (?, ?, ?, ?, ?, 1, ?)",
		u.ID, u.Name, u.Email, string(hash), string(u.Role), timeStr(u.CreatedAt),
	)
	if err != nil {
		s.internalError(w, "insert user", err)
		return
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		s.internalError(w, "issue token", err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var u model.User
	var hash, createdAt string
	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash, role, is_active, created_at FROM users WHERE email = ?",
		req.Email,
	).Scan(&u.ID, &u.Name, &u.Email, &hash, &u.Role, &u.IsActive, &createdAt)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		// 400, not 401: a failed login must not trip the client's
		// token-expiry handling.
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	u.CreatedAt = parseTime(createdAt)

	token, err := s.issueToken(u.ID)
	if err != nil {
		s.internalError(w, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: u})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, caller(r))
}

func (s *Server) issueToken(userID string) (string, error) {
	token := newToken()
	_, err := s.db.Exec(
		"INSERT INTO tokens (token, user_id, created_at) VALUES (?, ?, ?)",
		token, userID, timeStr(s.now()),
	)
	return token, err
}
