package server

import "time"

const (
	GameTypeNative  = "native"
	GameTypeWebview = "webview"
)

const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// Game is one catalog entry as served on the wire. HighScore is per anon
// token and filled in at request time; the stored row has no score.
type Game struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image,omitempty"`
	PreviewVideo string `json:"previewVideo,omitempty"`
	PreviewGif   string `json:"previewGif"`
	Type         string `json:"type"`
	GameURL      string `json:"gameUrl,omitempty"`
	HighScore    int    `json:"highScore"`
	SortOrder    int    `json:"-"`
}

// Submission is a community-submitted webview game awaiting review.
type Submission struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	PreviewGif  string    `json:"previewGif"`
	GameURL     string    `json:"gameUrl"`
	SubmittedBy string    `json:"submittedBy,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GameStore defines the storage operations used by the service.
type GameStore interface {
	UpsertGames(games []Game) error
	ListGames() ([]Game, error)
	GetGame(id string) (Game, bool, error)

	SaveHighScore(gameID, anonToken string, score int, at time.Time) (bool, error)
	HighScore(gameID, anonToken string) (int, bool, error)
	HighScoresForToken(anonToken string) (map[string]int, error)

	CreateSubmission(sub Submission) error
	GetSubmission(id string) (Submission, bool, error)
	ListSubmissionsByStatus(status string) ([]Submission, error)
	SetSubmissionStatus(id, status string) error
}
