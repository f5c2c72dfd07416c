package storage

import "fmt"

const schemaGames = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	image TEXT,
	preview_video TEXT,
	preview_gif TEXT,
	type TEXT NOT NULL CHECK (type IN ('native', 'webview')),
	game_url TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0
);`

const schemaGamesIndexes = `
CREATE INDEX IF NOT EXISTS idx_games_sort_order ON games(sort_order);`

const schemaHighScores = `
CREATE TABLE IF NOT EXISTS high_scores (
	game_id TEXT NOT NULL,
	anon_token TEXT NOT NULL,
	score INTEGER NOT NULL CHECK (score >= 0),
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (game_id, anon_token)
);`

const schemaHighScoresIndexes = `
CREATE INDEX IF NOT EXISTS idx_high_scores_token ON high_scores(anon_token);`

const schemaGameSubmissions = `
CREATE TABLE IF NOT EXISTS game_submissions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	description TEXT,
	preview_gif TEXT NOT NULL,
	game_url TEXT NOT NULL,
	submitted_by TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at INTEGER NOT NULL
);`

const schemaGameSubmissionsIndexes = `
CREATE INDEX IF NOT EXISTS idx_game_submissions_status ON game_submissions(status);`

const schemaAdminUsers = `
CREATE TABLE IF NOT EXISTS admin_users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	last_login INTEGER
);`

const schemaAdminSessions = `
CREATE TABLE IF NOT EXISTS admin_sessions (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL,
	FOREIGN KEY (user_id) REFERENCES admin_users(id) ON DELETE CASCADE
);`

const schemaAdminSessionsIndexes = `
CREATE INDEX IF NOT EXISTS idx_admin_sessions_expires ON admin_sessions(expires_at);`

const schemaMigrations = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY
);`

type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			schemaGames,
			schemaGamesIndexes,
			schemaHighScores,
			schemaHighScoresIndexes,
			schemaGameSubmissions,
			schemaGameSubmissionsIndexes,
		},
	},
	{
		version: 2,
		statements: []string{
			schemaAdminUsers,
			schemaAdminSessions,
			schemaAdminSessionsIndexes,
		},
	},
}

func (s *Store) EnsureSchema() error {
	return s.MigrateSchema()
}

func (s *Store) MigrateSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	if _, err := s.db.Exec(schemaMigrations); err != nil {
		return fmt.Errorf("storage: create schema_migrations table: %w", err)
	}

	current, err := s.currentSchemaVersion()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.version <= current {
			continue
		}
		if err := s.applyMigration(migration); err != nil {
			return err
		}
		current = migration.version
	}

	return nil
}

func (s *Store) currentSchemaVersion() (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("storage: missing database connection")
	}

	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("storage: read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) applyMigration(migration migration) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: start migration %d: %w", migration.version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, statement := range migration.statements {
		if _, err = tx.Exec(statement); err != nil {
			return fmt.Errorf("storage: migration %d failed: %w", migration.version, err)
		}
	}

	if _, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, migration.version); err != nil {
		return fmt.Errorf("storage: record migration %d: %w", migration.version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit migration %d: %w", migration.version, err)
	}
	return nil
}
