package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/caffeinum/rork-casual-game-flip/internal/auth"
)

func (s *Store) CreateUser(user auth.User) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	_, err := s.db.Exec(`
		INSERT INTO admin_users (id, username, password_hash, created_at, last_login)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.PasswordHash, user.CreatedAt.Unix(), nullInt64FromTime(user.LastLogin))
	return err
}

func (s *Store) GetUserByUsername(username string) (*auth.User, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	var user auth.User
	var createdAt, lastLogin sql.NullInt64

	err := s.db.QueryRow(`
		SELECT id, username, password_hash, created_at, last_login
		FROM admin_users
		WHERE username = ?
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &createdAt, &lastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	if createdAt.Valid {
		user.CreatedAt = time.Unix(createdAt.Int64, 0)
	}
	if lastLogin.Valid {
		user.LastLogin = time.Unix(lastLogin.Int64, 0)
	}
	return &user, nil
}

func (s *Store) UpdateUserLastLogin(id string, at time.Time) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	_, err := s.db.Exec(`
		UPDATE admin_users SET last_login = ? WHERE id = ?
	`, at.Unix(), id)
	return err
}

func (s *Store) CountUsers() (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("storage: missing database connection")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateSession(session auth.Session) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	_, err := s.db.Exec(`
		INSERT INTO admin_sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, session.Token, session.UserID, session.CreatedAt.Unix(), session.ExpiresAt.Unix())
	return err
}

func (s *Store) GetSession(token string) (*auth.Session, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	var session auth.Session
	var createdAt, expiresAt int64

	err := s.db.QueryRow(`
		SELECT s.token, s.user_id, u.username, s.created_at, s.expires_at
		FROM admin_sessions s
		JOIN admin_users u ON u.id = s.user_id
		WHERE s.token = ?
	`, token).Scan(&session.Token, &session.UserID, &session.Username, &createdAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	session.ExpiresAt = time.Unix(expiresAt, 0)
	return &session, nil
}

func (s *Store) DeleteSession(token string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	_, err := s.db.Exec(`DELETE FROM admin_sessions WHERE token = ?`, token)
	return err
}

func (s *Store) DeleteExpiredSessions(now time.Time) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	_, err := s.db.Exec(`DELETE FROM admin_sessions WHERE expires_at < ?`, now.Unix())
	return err
}

func nullInt64FromTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}
