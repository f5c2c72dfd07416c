package feed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

const anonTokenHeader = "x-anon-token"

// CatalogResult is what the feed renders from. Fallback marks the degraded
// path where the built-in catalog was substituted for the remote one.
type CatalogResult struct {
	Games    []Game
	Fallback bool
}

// CatalogLoader fetches the playable-game list from the remote service.
// Any failure degrades to the static fallback catalog; Load never returns
// an error.
type CatalogLoader struct {
	baseURL  string
	client   *http.Client
	identity *IdentityManager
	logger   *log.Logger
}

func NewCatalogLoader(baseURL string, client *http.Client, identity *IdentityManager, logger *log.Logger) *CatalogLoader {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogLoader{baseURL: baseURL, client: client, identity: identity, logger: logger}
}

type catalogResponse struct {
	Games     []Game `json:"games"`
	AnonToken string `json:"anonToken"`
	Success   bool   `json:"success"`
}

// Load resolves the identity first, then fetches GET {base}/games with the
// token attached. On success a server-rotated token (body first, then the
// response header) is reconciled before the catalog is returned. On any
// network or protocol failure the fallback catalog is returned instead.
func (l *CatalogLoader) Load(ctx context.Context) CatalogResult {
	token := l.identity.GetOrCreate().Token

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/games", nil)
	if err != nil {
		l.logger.Printf("level=warn msg=\"catalog request build failed, using fallback\" err=%v", err)
		return l.fallback()
	}
	req.Header.Set(anonTokenHeader, token)

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Printf("level=warn msg=\"catalog fetch failed, using fallback\" err=%v", err)
		return l.fallback()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Printf("level=warn msg=\"catalog fetch rejected, using fallback\" status=%d", resp.StatusCode)
		return l.fallback()
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		l.logger.Printf("level=warn msg=\"catalog payload malformed, using fallback\" err=%v", err)
		return l.fallback()
	}
	if !payload.Success {
		l.logger.Printf("level=warn msg=\"catalog fetch unsuccessful, using fallback\"")
		return l.fallback()
	}

	serverToken := payload.AnonToken
	if serverToken == "" {
		serverToken = resp.Header.Get(anonTokenHeader)
	}
	l.identity.Reconcile(serverToken)

	return CatalogResult{Games: payload.Games}
}

func (l *CatalogLoader) fallback() CatalogResult {
	return CatalogResult{Games: FallbackGames(), Fallback: true}
}
