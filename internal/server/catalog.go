package server

import (
	"sync"
	"time"
)

// Catalog is the in-memory view of the games table. Handlers read from it
// on every request; a ticker refreshes it so approved submissions show up
// without a restart.
type Catalog struct {
	store GameStore

	mu          sync.RWMutex
	games       []Game
	lastRefresh time.Time
}

func NewCatalog(store GameStore) (*Catalog, error) {
	c := &Catalog{store: store}
	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Refresh() error {
	games, err := c.store.ListGames()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.games = games
	c.lastRefresh = time.Now()
	c.mu.Unlock()
	return nil
}

// Games returns a copy of the current catalog.
func (c *Catalog) Games() []Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Game, len(c.games))
	copy(out, c.games)
	return out
}

func (c *Catalog) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}
