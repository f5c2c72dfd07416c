package server

import (
	"log"
	"net/http"
	"strings"
)

type gamesResponse struct {
	Games     []Game `json:"games"`
	AnonToken string `json:"anonToken"`
	Success   bool   `json:"success"`
}

// handleGames serves GET /games: the catalog annotated with the caller's
// best scores. A caller without a token gets one minted; either way the
// token is echoed in the x-anon-token header and the anonToken body field.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if s.handleOptions(w, r, "GET, OPTIONS") {
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	token := r.Header.Get(anonTokenHeader)
	if token == "" {
		token = mintAnonToken()
	}

	scores, err := s.store.HighScoresForToken(token)
	if err != nil {
		// The catalog must stay renderable; scores degrade to zero.
		log.Printf("level=warn msg=\"high score lookup failed\" err=%v", err)
		scores = map[string]int{}
	}

	games := s.catalog.Games()
	for i := range games {
		games[i].HighScore = scores[games[i].ID]
	}

	w.Header().Set(anonTokenHeader, token)
	writeJSON(w, gamesResponse{Games: games, AnonToken: token, Success: true})
}

// Routes under /games/{...}: either /games/submit or /games/{id}/score.
func (s *Server) handleGamesSubpath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/games/")
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	if parts[0] == "submit" && len(parts) == 1 {
		s.handleSubmit(w, r)
		return
	}
	if len(parts) == 2 && parts[1] == "score" {
		s.handleScore(w, r, parts[0])
		return
	}

	http.NotFound(w, r)
}
