package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/caffeinum/rork-casual-game-flip/internal/server"
)

func (s *Store) UpsertGames(games []server.Game) (err error) {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO games (id, title, description, image, preview_video, preview_gif, type, game_url, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			description=excluded.description,
			image=excluded.image,
			preview_video=excluded.preview_video,
			preview_gif=excluded.preview_gif,
			type=excluded.type,
			game_url=excluded.game_url,
			sort_order=excluded.sort_order
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, game := range games {
		_, err = stmt.Exec(
			game.ID,
			game.Title,
			nullString(game.Description),
			nullString(game.Image),
			nullString(game.PreviewVideo),
			nullString(game.PreviewGif),
			game.Type,
			nullString(game.GameURL),
			game.SortOrder,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ListGames() ([]server.Game, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT id, title, description, image, preview_video, preview_gif, type, game_url, sort_order
		FROM games
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []server.Game
	for rows.Next() {
		game, err := scanGame(rows.Scan)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *Store) GetGame(id string) (server.Game, bool, error) {
	if s == nil || s.db == nil {
		return server.Game{}, false, fmt.Errorf("storage: missing database connection")
	}

	row := s.db.QueryRow(`
		SELECT id, title, description, image, preview_video, preview_gif, type, game_url, sort_order
		FROM games
		WHERE id = ?
	`, id)
	game, err := scanGame(row.Scan)
	if err == sql.ErrNoRows {
		return server.Game{}, false, nil
	}
	if err != nil {
		return server.Game{}, false, err
	}
	return game, true, nil
}

func scanGame(scan func(...any) error) (server.Game, error) {
	var (
		game         server.Game
		description  sql.NullString
		image        sql.NullString
		previewVideo sql.NullString
		previewGif   sql.NullString
		gameURL      sql.NullString
	)
	err := scan(
		&game.ID,
		&game.Title,
		&description,
		&image,
		&previewVideo,
		&previewGif,
		&game.Type,
		&gameURL,
		&game.SortOrder,
	)
	if err != nil {
		return server.Game{}, err
	}
	game.Description = description.String
	game.Image = image.String
	game.PreviewVideo = previewVideo.String
	game.PreviewGif = previewGif.String
	game.GameURL = gameURL.String
	return game, nil
}

// SaveHighScore applies the server-side ratchet: the row is inserted on
// first sight and updated only when the new score is strictly greater.
// Returns whether a row actually changed.
func (s *Store) SaveHighScore(gameID, anonToken string, score int, at time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("storage: missing database connection")
	}

	result, err := s.db.Exec(`
		INSERT INTO high_scores (game_id, anon_token, score, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, anon_token) DO UPDATE SET
			score=excluded.score,
			updated_at=excluded.updated_at
		WHERE excluded.score > high_scores.score
	`, gameID, anonToken, score, at.Unix())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) HighScore(gameID, anonToken string) (int, bool, error) {
	if s == nil || s.db == nil {
		return 0, false, fmt.Errorf("storage: missing database connection")
	}

	var score int
	err := s.db.QueryRow(`
		SELECT score FROM high_scores
		WHERE game_id = ? AND anon_token = ?
	`, gameID, anonToken).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (s *Store) HighScoresForToken(anonToken string) (map[string]int, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT game_id, score FROM high_scores
		WHERE anon_token = ?
	`, anonToken)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := map[string]int{}
	for rows.Next() {
		var gameID string
		var score int
		if err := rows.Scan(&gameID, &score); err != nil {
			return nil, err
		}
		scores[gameID] = score
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (s *Store) CreateSubmission(sub server.Submission) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	_, err := s.db.Exec(`
		INSERT INTO game_submissions (id, title, author, description, preview_gif, game_url, submitted_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.Title, sub.Author, nullString(sub.Description), sub.PreviewGif, sub.GameURL, nullString(sub.SubmittedBy), sub.Status, sub.CreatedAt.Unix())
	return err
}

func (s *Store) GetSubmission(id string) (server.Submission, bool, error) {
	if s == nil || s.db == nil {
		return server.Submission{}, false, fmt.Errorf("storage: missing database connection")
	}

	row := s.db.QueryRow(`
		SELECT id, title, author, description, preview_gif, game_url, submitted_by, status, created_at
		FROM game_submissions
		WHERE id = ?
	`, id)
	sub, err := scanSubmission(row.Scan)
	if err == sql.ErrNoRows {
		return server.Submission{}, false, nil
	}
	if err != nil {
		return server.Submission{}, false, err
	}
	return sub, true, nil
}

func (s *Store) ListSubmissionsByStatus(status string) ([]server.Submission, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage: missing database connection")
	}

	rows, err := s.db.Query(`
		SELECT id, title, author, description, preview_gif, game_url, submitted_by, status, created_at
		FROM game_submissions
		WHERE status = ?
		ORDER BY created_at
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []server.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) SetSubmissionStatus(id, status string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage: missing database connection")
	}

	result, err := s.db.Exec(`
		UPDATE game_submissions SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("storage: submission %s not found", id)
	}
	return nil
}

func scanSubmission(scan func(...any) error) (server.Submission, error) {
	var (
		sub         server.Submission
		description sql.NullString
		submittedBy sql.NullString
		createdAt   int64
	)
	err := scan(
		&sub.ID,
		&sub.Title,
		&sub.Author,
		&description,
		&sub.PreviewGif,
		&sub.GameURL,
		&submittedBy,
		&sub.Status,
		&createdAt,
	)
	if err != nil {
		return server.Submission{}, err
	}
	sub.Description = description.String
	sub.SubmittedBy = submittedBy.String
	sub.CreatedAt = time.Unix(createdAt, 0)
	return sub, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
