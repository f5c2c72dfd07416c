package feed

import (
	"io"
	"log"
	"sync"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// failingKV wraps MemKV with injectable read/write failures for the
// persistence-error policy tests.
type failingKV struct {
	mem    *MemKV
	getErr error
	setErr error
}

func newFailingKV() *failingKV {
	return &failingKV{mem: NewMemKV()}
}

func (s *failingKV) Get(key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.mem.Get(key)
}

func (s *failingKV) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.mem.Set(key, value)
}

type pushCall struct {
	gameID string
	score  int
	token  string
}

// recordingPusher records pushes synchronously.
type recordingPusher struct {
	mu    sync.Mutex
	calls []pushCall
}

func (p *recordingPusher) Push(gameID string, score int, token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{gameID: gameID, score: score, token: token})
}

func (p *recordingPusher) Calls() []pushCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pushCall, len(p.calls))
	copy(out, p.calls)
	return out
}
