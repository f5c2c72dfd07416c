// Package auth handles the admin account that reviews community game
// submissions. One admin user, bcrypt password hash, opaque session tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin,omitempty"`
}

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store defines the storage operations behind the manager.
type Store interface {
	CreateUser(user User) error
	GetUserByUsername(username string) (*User, error)
	UpdateUserLastLogin(id string, at time.Time) error
	CountUsers() (int, error)

	CreateSession(session Session) error
	GetSession(token string) (*Session, error)
	DeleteSession(token string) error
	DeleteExpiredSessions(now time.Time) error
}

// Manager handles admin authentication.
type Manager struct {
	store           Store
	sessionDuration time.Duration
	sessionCache    *SessionCache
}

func NewManager(store Store, sessionDuration time.Duration) *Manager {
	if sessionDuration == 0 {
		sessionDuration = 24 * time.Hour
	}
	return &Manager{
		store:           store,
		sessionDuration: sessionDuration,
		sessionCache:    NewSessionCache(5 * time.Minute),
	}
}

// GenerateAdminPassword generates a random password for the admin user.
func GenerateAdminPassword() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based generation
		return fmt.Sprintf("admin-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(bytes)[:22]
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a random session token.
func GenerateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback
		hash := sha256.Sum256([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
		return hex.EncodeToString(hash[:])
	}
	return hex.EncodeToString(bytes)
}

// InitializeAdmin creates the admin user when none exists yet and returns
// the generated password (empty when an admin already exists). The caller
// is expected to log it once.
func (m *Manager) InitializeAdmin() (string, error) {
	count, err := m.store.CountUsers()
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	password := GenerateAdminPassword()
	passwordHash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	admin := User{
		ID:           "admin",
		Username:     "admin",
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if err := m.store.CreateUser(admin); err != nil {
		return "", err
	}
	return password, nil
}

// Login authenticates the admin and creates a session.
func (m *Manager) Login(username, password string) (*Session, error) {
	user, err := m.store.GetUserByUsername(username)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// last_login is advisory; login succeeds even if this write fails.
	_ = m.store.UpdateUserLastLogin(user.ID, time.Now())

	session := Session{
		Token:     GenerateToken(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(m.sessionDuration),
	}
	if err := m.store.CreateSession(session); err != nil {
		return nil, err
	}

	m.sessionCache.Set(&session)
	return &session, nil
}

// Logout invalidates a session.
func (m *Manager) Logout(token string) error {
	m.sessionCache.Delete(token)
	return m.store.DeleteSession(token)
}

// ValidateSession validates a session token, consulting the cache first.
func (m *Manager) ValidateSession(token string) (*Session, error) {
	if session, found := m.sessionCache.Get(token); found {
		return session, nil
	}

	session, err := m.store.GetSession(token)
	if err != nil {
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		_ = m.store.DeleteSession(token)
		m.sessionCache.Delete(token)
		return nil, ErrTokenExpired
	}

	m.sessionCache.Set(session)
	return session, nil
}

// CleanupExpiredSessions removes expired sessions from storage.
func (m *Manager) CleanupExpiredSessions() error {
	return m.store.DeleteExpiredSessions(time.Now())
}
