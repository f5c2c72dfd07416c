package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/caffeinum/rork-casual-game-flip/internal/auth"
)

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if s.handleOptions(w, r, "POST, OPTIONS") {
		return
	}
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Username) == "" || strings.TrimSpace(payload.Password) == "" {
		s.writeError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	session, err := s.authManager.Login(payload.Username, payload.Password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			s.writeError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		s.writeError(w, errInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, session)
}

func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if s.handleOptions(w, r, "POST, OPTIONS") {
		return
	}
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	token := extractToken(r)
	if token == "" {
		s.writeError(w, "missing authorization token", http.StatusUnauthorized)
		return
	}
	if err := s.authManager.Logout(token); err != nil {
		s.writeError(w, errInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// handleAdminSubmissions serves GET /admin/submissions?status=pending.
func (s *Server) handleAdminSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.handleOptions(w, r, "GET, OPTIONS") {
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	if _, err := s.requireAuth(r); err != nil {
		s.writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = SubmissionPending
	}

	subs, err := s.store.ListSubmissionsByStatus(status)
	if err != nil {
		s.writeError(w, errInternal, http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []Submission{}
	}
	writeJSON(w, subs)
}

// Routes under /admin/submissions/{id}/{approve|reject}.
func (s *Server) handleAdminSubmissionAction(w http.ResponseWriter, r *http.Request) {
	if s.handleOptions(w, r, "POST, OPTIONS") {
		return
	}
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	if _, err := s.requireAuth(r); err != nil {
		s.writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/admin/submissions/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id, action := parts[0], parts[1]

	sub, ok, err := s.store.GetSubmission(id)
	if err != nil {
		s.writeError(w, errInternal, http.StatusInternalServerError)
		return
	}
	if !ok {
		s.writeError(w, "submission not found", http.StatusNotFound)
		return
	}
	if sub.Status != SubmissionPending {
		s.writeError(w, "submission already reviewed", http.StatusConflict)
		return
	}

	switch action {
	case "approve":
		game := Game{
			ID:          sub.ID,
			Title:       sub.Title,
			Description: sub.Description,
			PreviewGif:  sub.PreviewGif,
			Type:        GameTypeWebview,
			GameURL:     sub.GameURL,
			SortOrder:   len(s.catalog.Games()) + 1,
		}
		if err := s.store.UpsertGames([]Game{game}); err != nil {
			s.writeError(w, errInternal, http.StatusInternalServerError)
			return
		}
		if err := s.store.SetSubmissionStatus(id, SubmissionApproved); err != nil {
			s.writeError(w, errInternal, http.StatusInternalServerError)
			return
		}
		if err := s.catalog.Refresh(); err != nil {
			s.writeError(w, errInternal, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"success": true, "gameId": sub.ID, "status": SubmissionApproved})

	case "reject":
		if err := s.store.SetSubmissionStatus(id, SubmissionRejected); err != nil {
			s.writeError(w, errInternal, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"success": true, "gameId": sub.ID, "status": SubmissionRejected})

	default:
		http.NotFound(w, r)
	}
}

// requireAuth validates the bearer session token.
func (s *Server) requireAuth(r *http.Request) (*auth.Session, error) {
	token := extractToken(r)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return s.authManager.ValidateSession(token)
}
