package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
)

// SyncAgent pushes updated scores to the remote store, best effort. One
// attempt per push, no retry, no outbox: a failed push is logged and
// dropped, and the local best is unaffected. The remote side re-validates
// the ratchet itself, so duplicate or stale pushes are harmless.
type SyncAgent struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
	wg      sync.WaitGroup
}

func NewSyncAgent(baseURL string, client *http.Client, logger *log.Logger) *SyncAgent {
	if logger == nil {
		logger = log.Default()
	}
	return &SyncAgent{baseURL: baseURL, client: client, logger: logger}
}

// Push fires a detached score update. It returns immediately; the outcome
// is observable only in the logs.
func (a *SyncAgent) Push(gameID string, score int, token string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.send(gameID, score, token); err != nil {
			a.logger.Printf("level=warn msg=\"score push failed\" game=%s score=%d err=%v", gameID, score, err)
			return
		}
		a.logger.Printf("level=info msg=\"score pushed\" game=%s score=%d", gameID, score)
	}()
}

// Flush waits for in-flight pushes. Process shutdown only; the session
// never waits on a push.
func (a *SyncAgent) Flush() {
	a.wg.Wait()
}

func (a *SyncAgent) send(gameID string, score int, token string) error {
	body, err := json.Marshal(map[string]int{"score": score})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/games/%s/score", a.baseURL, gameID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(anonTokenHeader, token)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}
	if !payload.Success {
		return fmt.Errorf("server rejected score")
	}
	return nil
}
