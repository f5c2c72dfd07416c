package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/caffeinum/rork-casual-game-flip/internal/auth"
	"github.com/caffeinum/rork-casual-game-flip/internal/server"
)

func newTestStore(t *testing.T, ensureSchema bool) *Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	store := &Store{db: db}
	if ensureSchema {
		if err := store.EnsureSchema(); err != nil {
			t.Fatalf("ensure schema: %v", err)
		}
	}

	return store
}

func TestEnsureSchema(t *testing.T) {
	store := newTestStore(t, false)

	if err := store.MigrateSchema(); err != nil {
		t.Fatalf("MigrateSchema() error = %v", err)
	}

	rows, err := store.db.Query(`
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
	`)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan sqlite_master: %v", err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("sqlite_master rows: %v", err)
	}

	for _, table := range []string{"schema_migrations", "games", "high_scores", "game_submissions", "admin_users", "admin_sessions"} {
		if !found[table] {
			t.Fatalf("expected table %q to exist", table)
		}
	}

	var version int
	if err := store.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatalf("query schema_migrations: %v", err)
	}
	if version != 2 {
		t.Fatalf("unexpected schema version: got %d want 2", version)
	}

	// Re-running must be a no-op.
	if err := store.MigrateSchema(); err != nil {
		t.Fatalf("MigrateSchema() second run error = %v", err)
	}
}

func TestUpsertGames(t *testing.T) {
	store := newTestStore(t, true)

	games := []server.Game{
		{
			ID:        "tap-speed",
			Title:     "Tap Speed",
			Image:     "https://example.test/tap.jpg",
			Type:      server.GameTypeNative,
			SortOrder: 1,
		},
		{
			ID:        "flappy-bird",
			Title:     "Flappy Bird",
			Type:      server.GameTypeWebview,
			GameURL:   "https://flappybird.io/",
			SortOrder: 2,
		},
	}

	if err := store.UpsertGames(games); err != nil {
		t.Fatalf("UpsertGames() error = %v", err)
	}

	var (
		title       string
		description sql.NullString
		gameURL     sql.NullString
	)
	err := store.db.QueryRow(`
		SELECT title, description, game_url
		FROM games
		WHERE id = ?
	`, "flappy-bird").Scan(&title, &description, &gameURL)
	if err != nil {
		t.Fatalf("query saved game: %v", err)
	}
	if title != "Flappy Bird" || gameURL.String != "https://flappybird.io/" {
		t.Fatalf("unexpected stored values: title=%q game_url=%q", title, gameURL.String)
	}
	if description.Valid {
		t.Fatalf("expected description to be NULL, got %q", description.String)
	}

	games[0].Title = "Tap Speed Remastered"
	games[0].Description = "Tap as fast as you can"
	if err := store.UpsertGames(games[:1]); err != nil {
		t.Fatalf("UpsertGames() update error = %v", err)
	}

	updated, ok, err := store.GetGame("tap-speed")
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if !ok {
		t.Fatalf("expected tap-speed to exist")
	}
	if updated.Title != "Tap Speed Remastered" || updated.Description != "Tap as fast as you can" {
		t.Fatalf("unexpected updated values: title=%q description=%q", updated.Title, updated.Description)
	}
}

func TestListGamesOrder(t *testing.T) {
	store := newTestStore(t, true)

	games := []server.Game{
		{ID: "zeta", Title: "Zeta", Type: server.GameTypeNative, SortOrder: 1},
		{ID: "alpha", Title: "Alpha", Type: server.GameTypeNative, SortOrder: 3},
		{ID: "mid", Title: "Mid", Type: server.GameTypeWebview, GameURL: "https://play2048.co/", SortOrder: 2},
	}
	if err := store.UpsertGames(games); err != nil {
		t.Fatalf("UpsertGames() error = %v", err)
	}

	got, err := store.ListGames()
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListGames() len = %d, want 3", len(got))
	}
	if got[0].ID != "zeta" || got[1].ID != "mid" || got[2].ID != "alpha" {
		t.Fatalf("ListGames() order = %q, %q, %q; want zeta, mid, alpha", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestGetGameMissing(t *testing.T) {
	store := newTestStore(t, true)

	_, ok, err := store.GetGame("nope")
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if ok {
		t.Fatalf("expected missing game")
	}
}

func TestSaveHighScoreRatchet(t *testing.T) {
	store := newTestStore(t, true)

	now := time.Unix(1700000000, 0)
	token := "anon_1700000000000_abcd1234"

	updated, err := store.SaveHighScore("tap-speed", token, 10, now)
	if err != nil {
		t.Fatalf("SaveHighScore() error = %v", err)
	}
	if !updated {
		t.Fatalf("expected first score to insert")
	}

	// Lower and equal scores must not overwrite.
	for _, score := range []int{5, 10} {
		updated, err = store.SaveHighScore("tap-speed", token, score, now.Add(time.Minute))
		if err != nil {
			t.Fatalf("SaveHighScore(%d) error = %v", score, err)
		}
		if updated {
			t.Fatalf("SaveHighScore(%d) unexpectedly updated", score)
		}
	}

	updated, err = store.SaveHighScore("tap-speed", token, 25, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("SaveHighScore(25) error = %v", err)
	}
	if !updated {
		t.Fatalf("expected higher score to update")
	}

	score, ok, err := store.HighScore("tap-speed", token)
	if err != nil {
		t.Fatalf("HighScore() error = %v", err)
	}
	if !ok || score != 25 {
		t.Fatalf("HighScore() = %d, %v; want 25, true", score, ok)
	}
}

func TestHighScoresForToken(t *testing.T) {
	store := newTestStore(t, true)

	now := time.Unix(1700000000, 0)
	token := "anon_1700000000000_abcd1234"
	other := "anon_1700000000001_ffff0000"

	seeds := []struct {
		gameID string
		token  string
		score  int
	}{
		{"tap-speed", token, 12},
		{"memory-match", token, 7},
		{"tap-speed", other, 99},
	}
	for _, seed := range seeds {
		if _, err := store.SaveHighScore(seed.gameID, seed.token, seed.score, now); err != nil {
			t.Fatalf("SaveHighScore(%s) error = %v", seed.gameID, err)
		}
	}

	scores, err := store.HighScoresForToken(token)
	if err != nil {
		t.Fatalf("HighScoresForToken() error = %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("HighScoresForToken() len = %d, want 2", len(scores))
	}
	if scores["tap-speed"] != 12 || scores["memory-match"] != 7 {
		t.Fatalf("unexpected scores: %v", scores)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	store := newTestStore(t, true)

	sub := server.Submission{
		ID:          "user-1700000000000-ab12",
		Title:       "Snake",
		Author:      "someone",
		PreviewGif:  "https://example.test/snake.gif",
		GameURL:     "https://example.test/snake",
		SubmittedBy: "anon_1700000000000_abcd1234",
		Status:      server.SubmissionPending,
		CreatedAt:   time.Unix(1700000000, 0),
	}
	if err := store.CreateSubmission(sub); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}

	got, ok, err := store.GetSubmission(sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission() error = %v", err)
	}
	if !ok {
		t.Fatalf("expected submission to exist")
	}
	if got.Title != "Snake" || got.Status != server.SubmissionPending || got.SubmittedBy != sub.SubmittedBy {
		t.Fatalf("unexpected submission: %+v", got)
	}
	if got.CreatedAt.Unix() != sub.CreatedAt.Unix() {
		t.Fatalf("unexpected created_at: got %d want %d", got.CreatedAt.Unix(), sub.CreatedAt.Unix())
	}

	pending, err := store.ListSubmissionsByStatus(server.SubmissionPending)
	if err != nil {
		t.Fatalf("ListSubmissionsByStatus() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != sub.ID {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	if err := store.SetSubmissionStatus(sub.ID, server.SubmissionApproved); err != nil {
		t.Fatalf("SetSubmissionStatus() error = %v", err)
	}

	pending, err = store.ListSubmissionsByStatus(server.SubmissionPending)
	if err != nil {
		t.Fatalf("ListSubmissionsByStatus() error = %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending submissions, got %d", len(pending))
	}

	if err := store.SetSubmissionStatus("missing", server.SubmissionRejected); err == nil {
		t.Fatalf("expected error for missing submission")
	}
}

func TestAuthStore(t *testing.T) {
	store := newTestStore(t, true)

	count, err := store.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers() error = %v", err)
	}
	if count != 0 {
		t.Fatalf("CountUsers() = %d, want 0", count)
	}

	user := auth.User{
		ID:           "admin-1",
		Username:     "admin",
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    time.Unix(1700000000, 0),
	}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := store.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != user.PasswordHash {
		t.Fatalf("unexpected user: %+v", got)
	}
	if !got.LastLogin.IsZero() {
		t.Fatalf("expected zero last login, got %v", got.LastLogin)
	}

	if _, err := store.GetUserByUsername("ghost"); err != auth.ErrUserNotFound {
		t.Fatalf("GetUserByUsername(ghost) error = %v, want ErrUserNotFound", err)
	}

	loginAt := time.Unix(1700000500, 0)
	if err := store.UpdateUserLastLogin(user.ID, loginAt); err != nil {
		t.Fatalf("UpdateUserLastLogin() error = %v", err)
	}
	got, err = store.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got.LastLogin.Unix() != loginAt.Unix() {
		t.Fatalf("unexpected last login: got %d want %d", got.LastLogin.Unix(), loginAt.Unix())
	}

	session := auth.Session{
		Token:     "deadbeef",
		UserID:    user.ID,
		CreatedAt: time.Unix(1700001000, 0),
		ExpiresAt: time.Unix(1700004600, 0),
	}
	if err := store.CreateSession(session); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	gotSession, err := store.GetSession("deadbeef")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if gotSession.UserID != user.ID || gotSession.Username != "admin" {
		t.Fatalf("unexpected session: %+v", gotSession)
	}
	if gotSession.ExpiresAt.Unix() != session.ExpiresAt.Unix() {
		t.Fatalf("unexpected expiry: got %d want %d", gotSession.ExpiresAt.Unix(), session.ExpiresAt.Unix())
	}

	if _, err := store.GetSession("unknown"); err != auth.ErrInvalidToken {
		t.Fatalf("GetSession(unknown) error = %v, want ErrInvalidToken", err)
	}

	if err := store.DeleteExpiredSessions(time.Unix(1700009999, 0)); err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if _, err := store.GetSession("deadbeef"); err != auth.ErrInvalidToken {
		t.Fatalf("expected expired session to be gone, error = %v", err)
	}
}
