package feed

import (
	"errors"
	"log"
	"sync"
)

// Mode is the feed's top-level state. Loading is the pre-catalog state;
// Browsing and Playing are the two session modes proper.
type Mode int

const (
	ModeLoading Mode = iota
	ModeBrowsing
	ModePlaying
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeBrowsing:
		return "browsing"
	case ModePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidIndex is returned for a SelectGame index outside the
	// catalog; a caller contract violation, no state change.
	ErrInvalidIndex = errors.New("feed: game index out of range")
	// ErrNotBrowsing is returned when navigation or selection is attempted
	// while a game is in progress or before the catalog is available.
	ErrNotBrowsing = errors.New("feed: session is not browsing")
)

// Pusher is the best-effort score push side channel. Push must not block
// the caller on network work and its outcome never feeds back into the
// session.
type Pusher interface {
	Push(gameID string, score int, token string)
}

// SessionController drives the browsing/playing state machine. It owns the
// active index and gates navigation while a game is in progress; the score
// mapping is only ever touched through ScoreCache.RatchetUpdate.
type SessionController struct {
	scores   *ScoreCache
	identity *IdentityManager
	pusher   Pusher
	logger   *log.Logger

	mu     sync.Mutex
	games  []Game
	mode   Mode
	active int
}

func NewSessionController(scores *ScoreCache, identity *IdentityManager, pusher Pusher, logger *log.Logger) *SessionController {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionController{
		scores:   scores,
		identity: identity,
		pusher:   pusher,
		logger:   logger,
		mode:     ModeLoading,
	}
}

// SetCatalog replaces the catalog wholesale. A non-empty catalog lands the
// session in Browsing at index zero; an empty one is the loading/empty
// state, which is valid and renderable.
func (s *SessionController) SetCatalog(games []Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = games
	s.active = 0
	if len(games) == 0 {
		s.mode = ModeLoading
		return
	}
	s.mode = ModeBrowsing
}

func (s *SessionController) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *SessionController) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveGame returns the game at the active index, false when the catalog
// is empty.
func (s *SessionController) ActiveGame() (Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.games) == 0 {
		return Game{}, false
	}
	return s.games[s.active], true
}

func (s *SessionController) Games() []Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Game, len(s.games))
	copy(out, s.games)
	return out
}

// SelectGame starts playing the game at index. Out-of-range indexes are
// rejected without any state change.
func (s *SessionController) SelectGame(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeBrowsing {
		return ErrNotBrowsing
	}
	if index < 0 || index >= len(s.games) {
		return ErrInvalidIndex
	}
	s.active = index
	s.mode = ModePlaying
	return nil
}

// GameEnded closes the current play session and ratchets its score. A
// session can receive this from more than one trigger (explicit close and
// timer expiry); only the first is effective, later signals find the
// session already browsing and are no-ops. Negative scores are rejected
// here, before the cache is reached.
func (s *SessionController) GameEnded(score int) {
	s.mu.Lock()
	if s.mode != ModePlaying {
		s.mu.Unlock()
		return
	}
	game := s.games[s.active]
	s.mode = ModeBrowsing
	s.mu.Unlock()

	if score < 0 {
		s.logger.Printf("level=warn msg=\"rejecting negative score\" game=%s score=%d", game.ID, score)
		return
	}

	updated, err := s.scores.RatchetUpdate(game.ID, score)
	if err != nil {
		s.logger.Printf("level=warn msg=\"high score persist failed\" game=%s err=%v", game.ID, err)
	}
	if !updated {
		return
	}
	s.pusher.Push(game.ID, score, s.identity.Token())
}

// Navigate moves the active index one step, clamped to the catalog bounds.
// No wraparound on this entry point.
func (s *SessionController) Navigate(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeBrowsing {
		return ErrNotBrowsing
	}
	next := s.active + delta
	if next < 0 {
		next = 0
	}
	if next > len(s.games)-1 {
		next = len(s.games) - 1
	}
	s.active = next
	return nil
}

// Jump moves directly to index modulo the catalog size, wrapping around.
// Jump and Navigate deliberately disagree at the boundaries: stepping
// clamps, jumping wraps.
func (s *SessionController) Jump(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeBrowsing {
		return ErrNotBrowsing
	}
	n := len(s.games)
	s.active = ((index % n) + n) % n
	return nil
}
