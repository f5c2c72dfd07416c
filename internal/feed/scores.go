package feed

import (
	"encoding/json"
	"log"
	"sync"
)

const kvKeyHighScores = "gameHighScores"

// ScoreCache is the authoritative local view of "best score per game". All
// writes go through RatchetUpdate; no caller may set a score directly.
type ScoreCache struct {
	kv     KV
	logger *log.Logger

	mu     sync.Mutex
	scores map[string]int
}

func NewScoreCache(kv KV, logger *log.Logger) *ScoreCache {
	if logger == nil {
		logger = log.Default()
	}
	return &ScoreCache{kv: kv, logger: logger, scores: map[string]int{}}
}

// LoadLocal reads the persisted mapping. A read failure or a malformed
// record is a cache miss: the mapping comes back empty and scores restart
// at zero.
func (c *ScoreCache) LoadLocal() map[string]int {
	raw, ok, err := c.kv.Get(kvKeyHighScores)
	if err != nil {
		c.logger.Printf("level=warn msg=\"high score read failed, treating as empty\" err=%v", err)
		return map[string]int{}
	}
	if !ok {
		return map[string]int{}
	}
	var scores map[string]int
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		c.logger.Printf("level=warn msg=\"high score record malformed, treating as empty\" err=%v", err)
		return map[string]int{}
	}
	return scores
}

// Merge reconciles remote-reported scores against locally persisted ones:
// the remote value wins when present, otherwise the local value, otherwise
// zero. The result replaces the in-memory cache.
func (c *ScoreCache) Merge(remote, local map[string]int) map[string]int {
	merged := map[string]int{}
	for id, score := range local {
		merged[id] = score
	}
	for id, score := range remote {
		merged[id] = score
	}

	c.mu.Lock()
	c.scores = merged
	c.mu.Unlock()

	out := make(map[string]int, len(merged))
	for id, score := range merged {
		out[id] = score
	}
	return out
}

// Best returns the cached best score for a game, zero when unknown.
func (c *ScoreCache) Best(gameID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scores[gameID]
}

// RatchetUpdate replaces the stored value only when candidate is strictly
// greater, persisting the full mapping durably in the same critical
// section. On a persistence failure nothing changes and the error is
// surfaced: a later read never observes the memory and the record out of
// sync.
func (c *ScoreCache) RatchetUpdate(gameID string, candidate int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if candidate <= c.scores[gameID] {
		return false, nil
	}

	next := make(map[string]int, len(c.scores)+1)
	for id, score := range c.scores {
		next[id] = score
	}
	next[gameID] = candidate

	raw, err := json.Marshal(next)
	if err != nil {
		return false, err
	}
	if err := c.kv.Set(kvKeyHighScores, string(raw)); err != nil {
		return false, err
	}

	c.scores = next
	return true, nil
}
