// Package server implements the games service: the catalog endpoint, the
// per-token high-score ratchet, community submissions and their admin
// review.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/caffeinum/rork-casual-game-flip/internal/auth"
)

type Config struct {
	Addr            string
	CatalogRefresh  time.Duration
	SubmitInterval  time.Duration
	SessionDuration time.Duration
	CORSEnabled     bool
}

type Server struct {
	addr        string
	store       GameStore
	catalog     *Catalog
	authManager *auth.Manager
	submitLimit *RateLimiter
	corsEnabled bool

	http         *http.Server
	refreshEvery time.Duration
	refreshTick  *time.Ticker
	refreshStop  chan struct{}
}

func New(store GameStore, authStore auth.Store, cfg Config) (*Server, error) {
	catalog, err := NewCatalog(store)
	if err != nil {
		return nil, err
	}

	if cfg.SubmitInterval == 0 {
		cfg.SubmitInterval = 30 * time.Second
	}

	s := &Server{
		addr:         cfg.Addr,
		store:        store,
		catalog:      catalog,
		authManager:  auth.NewManager(authStore, cfg.SessionDuration),
		submitLimit:  NewRateLimiter(cfg.SubmitInterval),
		corsEnabled:  cfg.CORSEnabled,
		refreshEvery: cfg.CatalogRefresh,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/games", s.handleGames)
	mux.HandleFunc("/games/", s.handleGamesSubpath)
	mux.HandleFunc("/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/auth/logout", s.handleAuthLogout)
	mux.HandleFunc("/admin/submissions", s.handleAdminSubmissions)
	mux.HandleFunc("/admin/submissions/", s.handleAdminSubmissionAction)

	if s.refreshEvery > 0 {
		s.refreshTick = time.NewTicker(s.refreshEvery)
		s.refreshStop = make(chan struct{})
		go s.runRefreshTicker()
	}

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           logMiddleware(mux, cfg.CORSEnabled),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// AuthManager exposes the manager so the entry point can initialize the
// admin account.
func (s *Server) AuthManager() *auth.Manager { return s.authManager }

// Handler returns the HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) Start() error { return s.http.ListenAndServe() }

func (s *Server) Close() error {
	s.stopRefreshTicker()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) runRefreshTicker() {
	for {
		select {
		case <-s.refreshTick.C:
			if err := s.catalog.Refresh(); err != nil {
				log.Printf("level=warn msg=\"catalog refresh failed\" err=%v", err)
			}
		case <-s.refreshStop:
			s.refreshTick.Stop()
			return
		}
	}
}

func (s *Server) stopRefreshTicker() {
	if s.refreshStop == nil {
		return
	}
	close(s.refreshStop)
	s.refreshStop = nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", textContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
