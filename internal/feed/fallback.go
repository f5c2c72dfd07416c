package feed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	PreviewGif  string `yaml:"preview_gif"`
	Type        string `yaml:"type"`
}

type fallbackFile struct {
	Games []fallbackEntry `yaml:"games"`
}

var fallbackOnce = sync.OnceValue(func() []Game {
	var parsed fallbackFile
	if err := yaml.Unmarshal(fallbackYAML, &parsed); err != nil {
		panic(fmt.Sprintf("feed: embedded fallback catalog: %v", err))
	}
	games := make([]Game, 0, len(parsed.Games))
	// Newest-first: the declared sequence is returned in reverse.
	for i := len(parsed.Games) - 1; i >= 0; i-- {
		e := parsed.Games[i]
		games = append(games, Game{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			PreviewGif:  e.PreviewGif,
			Type:        e.Type,
		})
	}
	return games
})

// FallbackGames returns the built-in catalog, every BestScore zero. The
// result is a fresh slice on every call; callers may annotate it freely.
func FallbackGames() []Game {
	parsed := fallbackOnce()
	games := make([]Game, len(parsed))
	copy(games, parsed)
	return games
}
