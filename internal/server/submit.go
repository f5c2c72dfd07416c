package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type submitRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	PreviewGif  string `json:"previewGif"`
	GameURL     string `json:"gameUrl"`
}

// handleSubmit serves POST /games/submit: a community webview game enters
// the review queue as pending. Title, author, preview gif and game URL are
// all required.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.handleOptions(w, r, "POST, OPTIONS") {
		return
	}
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	token := r.Header.Get(anonTokenHeader)
	if token == "" {
		token = mintAnonToken()
	}

	limitKey := token
	if ok, _ := s.submitLimit.Allow(limitKey); !ok {
		s.writeError(w, "too many submissions, slow down", http.StatusTooManyRequests)
		return
	}

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, "bad request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(payload.Title) == "" ||
		strings.TrimSpace(payload.Author) == "" ||
		strings.TrimSpace(payload.PreviewGif) == "" ||
		strings.TrimSpace(payload.GameURL) == "" {
		w.Header().Set("Content-Type", jsonContentType)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Missing required fields",
		})
		return
	}

	sub := Submission{
		ID:          mintSubmissionID(),
		Title:       payload.Title,
		Author:      payload.Author,
		Description: payload.Description,
		PreviewGif:  payload.PreviewGif,
		GameURL:     payload.GameURL,
		SubmittedBy: token,
		Status:      SubmissionPending,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateSubmission(sub); err != nil {
		s.writeError(w, errInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set(anonTokenHeader, token)
	writeJSON(w, map[string]any{
		"success": true,
		"gameId":  sub.ID,
		"message": "Game submitted successfully",
	})
}
