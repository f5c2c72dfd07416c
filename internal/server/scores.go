package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// handleScore serves POST /games/{id}/score. The token is mandatory here:
// without one there is nothing to attach the score to. The store applies
// the ratchet itself, so duplicate and stale pushes from clients are
// harmless.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request, gameID string) {
	if s.handleOptions(w, r, "POST, OPTIONS") {
		return
	}
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	token := r.Header.Get(anonTokenHeader)
	if token == "" {
		s.writeError(w, "Anonymous token required", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Score *int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Score == nil || *payload.Score < 0 {
		s.writeError(w, "Invalid score", http.StatusBadRequest)
		return
	}

	if _, err := s.store.SaveHighScore(gameID, token, *payload.Score, time.Now()); err != nil {
		s.writeError(w, errInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"success": true, "score": *payload.Score})
}
