package feed

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"
)

const (
	kvKeyIdentityToken    = "identityToken"
	kvKeyIdentityIssuedAt = "identityIssuedAt"
)

// Identity is the anonymous token correlating this installation's sessions.
// Exactly one per installation.
type Identity struct {
	Token    string
	IssuedAt time.Time
}

// IdentityManager owns the token: minting, persistence and reconciliation
// with server-issued values. The token is the one piece of state read by
// several components but written only here.
type IdentityManager struct {
	kv     KV
	logger *log.Logger

	mu      sync.Mutex
	current *Identity
}

func NewIdentityManager(kv KV, logger *log.Logger) *IdentityManager {
	if logger == nil {
		logger = log.Default()
	}
	return &IdentityManager{kv: kv, logger: logger}
}

// GetOrCreate returns the persisted identity, minting and persisting a new
// one when none can be read. A storage read failure is treated exactly like
// "no token stored": a fresh token is minted, which can orphan scores synced
// under the old one. Idempotent within a process.
func (m *IdentityManager) GetOrCreate() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return *m.current
	}

	token, ok, err := m.kv.Get(kvKeyIdentityToken)
	if err != nil {
		m.logger.Printf("level=warn msg=\"identity read failed, minting new token\" err=%v", err)
		ok = false
	}
	if ok && token != "" {
		id := Identity{Token: token, IssuedAt: m.readIssuedAt()}
		m.current = &id
		return id
	}

	id := Identity{Token: mintToken(), IssuedAt: time.Now()}
	m.persistLocked(id)
	m.current = &id
	return id
}

// Reconcile overwrites the identity with a server-issued token when it
// differs from the current one. The server is authoritative once contacted;
// last-write-wins, no merging of history tied to the old token.
func (m *IdentityManager) Reconcile(serverToken string) {
	if serverToken == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.Token == serverToken {
		return
	}
	id := Identity{Token: serverToken, IssuedAt: time.Now()}
	m.persistLocked(id)
	m.current = &id
}

// Token returns the current token, resolving the identity if needed.
func (m *IdentityManager) Token() string {
	return m.GetOrCreate().Token
}

func (m *IdentityManager) persistLocked(id Identity) {
	if err := m.kv.Set(kvKeyIdentityToken, id.Token); err != nil {
		m.logger.Printf("level=warn msg=\"identity write failed\" err=%v", err)
		return
	}
	if err := m.kv.Set(kvKeyIdentityIssuedAt, strconv.FormatInt(id.IssuedAt.UnixMilli(), 10)); err != nil {
		m.logger.Printf("level=warn msg=\"identity timestamp write failed\" err=%v", err)
	}
}

func (m *IdentityManager) readIssuedAt() time.Time {
	raw, ok, err := m.kv.Get(kvKeyIdentityIssuedAt)
	if err != nil || !ok {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// mintToken combines a millisecond timestamp with a random component, the
// same shape the service mints: anon_<unixms>_<hex>.
func mintToken() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to clock-only generation
		return fmt.Sprintf("anon_%d_%x", time.Now().UnixMilli(), time.Now().UnixNano())
	}
	return fmt.Sprintf("anon_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
