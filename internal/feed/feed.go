// Package feed implements the session and score-synchronization engine
// behind the game feed: anonymous identity, catalog loading with a static
// fallback, monotonic best-score tracking, the browsing/playing state
// machine, and best-effort score pushes to the remote service.
package feed

import (
	"context"
	"log"
	"net/http"
	"time"
)

const (
	GameTypeNative  = "native"
	GameTypeWebview = "webview"
)

// Game is one catalog entry. The JSON tags match the remote service's wire
// format; BestScore travels as "highScore".
type Game struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image,omitempty"`
	PreviewVideo string `json:"previewVideo,omitempty"`
	PreviewGif   string `json:"previewGif"`
	Type         string `json:"type"`
	GameURL      string `json:"gameUrl,omitempty"`
	BestScore    int    `json:"highScore"`
}

// Engine ties the feed components together. It is an explicit context
// object: construct one per installation (or per test) and thread it to the
// UI layer; there is no package-level state.
type Engine struct {
	Identity *IdentityManager
	Catalog  *CatalogLoader
	Scores   *ScoreCache
	Session  *SessionController
	Sync     *SyncAgent

	logger *log.Logger
}

type Options struct {
	// BaseURL is the remote service root, e.g. "https://example.com/api".
	BaseURL string
	// KV is the durable local store for the identity token and best scores.
	KV KV
	// HTTPClient defaults to a client with a short timeout.
	HTTPClient *http.Client
	// Logger defaults to log.Default().
	Logger *log.Logger
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	kv := opts.KV
	if kv == nil {
		kv = NewMemKV()
	}

	identity := NewIdentityManager(kv, logger)
	scores := NewScoreCache(kv, logger)
	syncAgent := NewSyncAgent(opts.BaseURL, client, logger)
	session := NewSessionController(scores, identity, syncAgent, logger)

	return &Engine{
		Identity: identity,
		Catalog:  NewCatalogLoader(opts.BaseURL, client, identity, logger),
		Scores:   scores,
		Session:  session,
		Sync:     syncAgent,
		logger:   logger,
	}
}

// Load resolves the identity, fetches the catalog (or its fallback), merges
// remote-reported best scores with the locally persisted ones and installs
// the result into the session controller. The ordering here is load-bearing:
// identity before catalog, catalog before any ratchet, so remote-known
// scores are never clobbered by a stale default.
func (e *Engine) Load(ctx context.Context) CatalogResult {
	result := e.Catalog.Load(ctx)

	remote := map[string]int{}
	if !result.Fallback {
		// The server is the source of truth for every game it reports.
		for _, g := range result.Games {
			remote[g.ID] = g.BestScore
		}
	}
	merged := e.Scores.Merge(remote, e.Scores.LoadLocal())

	for i := range result.Games {
		result.Games[i].BestScore = merged[result.Games[i].ID]
	}
	e.Session.SetCatalog(result.Games)
	return result
}
