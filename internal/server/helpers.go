package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const anonTokenHeader = "x-anon-token"

const errInternal = "internal error"

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", jsonContentType)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
}

// handleOptions answers CORS preflight; returns true when the request was
// consumed.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request, allow string) bool {
	setCORSHeaders(w, s.corsEnabled)
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Set("Allow", allow)
	w.Header().Set("Access-Control-Allow-Methods", allow)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+anonTokenHeader)
	w.WriteHeader(http.StatusNoContent)
	return true
}

// extractToken extracts the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// mintAnonToken mints a fresh anonymous token for clients arriving without
// one: anon_<unixms>_<hex>.
func mintAnonToken() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("anon_%d_%x", time.Now().UnixMilli(), time.Now().UnixNano())
	}
	return fmt.Sprintf("anon_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}

// mintSubmissionID mints a community-game identifier: user-<unixms>-<hex>.
func mintSubmissionID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("user-%d-%x", time.Now().UnixMilli(), time.Now().UnixNano())
	}
	return fmt.Sprintf("user-%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
