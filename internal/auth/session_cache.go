package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const sessionCacheSize = 1024

// SessionCache keeps recently validated sessions in memory so token
// validation does not hit the database on every request.
type SessionCache struct {
	lru *expirable.LRU[string, *Session]
}

func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &SessionCache{
		lru: expirable.NewLRU[string, *Session](sessionCacheSize, nil, ttl),
	}
}

// Get returns a cached session, skipping entries whose session itself has
// expired.
func (c *SessionCache) Get(token string) (*Session, bool) {
	session, ok := c.lru.Get(token)
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		c.lru.Remove(token)
		return nil, false
	}
	return session, true
}

func (c *SessionCache) Set(session *Session) {
	if session == nil {
		return
	}
	c.lru.Add(session.Token, session)
}

func (c *SessionCache) Delete(token string) {
	c.lru.Remove(token)
}

func (c *SessionCache) Clear() {
	c.lru.Purge()
}

func (c *SessionCache) Size() int {
	return c.lru.Len()
}
