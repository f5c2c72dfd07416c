//go:build ignore

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/caffeinum/rork-casual-game-flip/internal/server"
	"github.com/caffeinum/rork-casual-game-flip/internal/storage"
)

// Seeds the launch catalog. Safe to re-run; rows are upserted.
func main() {
	dbPath := flag.String("db", "./data/games.db", "sqlite database path")
	flag.Parse()

	store, err := storage.Open(*dbPath, storage.Options{BusyTimeout: 5 * time.Second})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	games := []server.Game{
		{
			ID:           "tap-speed",
			Title:        "Tap Speed",
			Description:  "How fast can you tap?",
			Type:         server.GameTypeNative,
			Image:        "https://images.unsplash.com/photo-1511512578047-dfb367046420?w=800&h=600&fit=crop",
			PreviewVideo: "https://www.w3schools.com/html/mov_bbb.mp4",
			PreviewGif:   "https://media.giphy.com/media/3o7btPCcdNniyf0ArS/giphy.gif",
			SortOrder:    1,
		},
		{
			ID:           "memory-match",
			Title:        "Memory Match",
			Description:  "Test your memory!",
			Type:         server.GameTypeNative,
			Image:        "https://images.unsplash.com/photo-1594736797933-d0501ba2fe65?w=800&h=600&fit=crop",
			PreviewVideo: "https://www.w3schools.com/html/mov_bbb.mp4",
			PreviewGif:   "https://media.giphy.com/media/l0HlQ7LRalQqdWfao/giphy.gif",
			SortOrder:    2,
		},
		{
			ID:           "color-match",
			Title:        "Color Match",
			Description:  "Match the colors!",
			Type:         server.GameTypeNative,
			Image:        "https://images.unsplash.com/photo-1525909002-1b05e0c869d8?w=800&h=600&fit=crop",
			PreviewVideo: "https://www.w3schools.com/html/mov_bbb.mp4",
			PreviewGif:   "https://media.giphy.com/media/26tn33aiTi1jkl6H6/giphy.gif",
			SortOrder:    3,
		},
		{
			ID:           "flappy-bird",
			Title:        "Flappy Bird",
			Description:  "Classic flappy game",
			Type:         server.GameTypeWebview,
			Image:        "https://images.unsplash.com/photo-1567447013110-3df4406cea10?w=800&h=600&fit=crop",
			PreviewVideo: "https://www.w3schools.com/html/mov_bbb.mp4",
			PreviewGif:   "https://media.giphy.com/media/euuaA2cwLEUuI/giphy.gif",
			GameURL:      "https://flappybird.io/",
			SortOrder:    4,
		},
		{
			ID:           "2048",
			Title:        "2048",
			Description:  "Slide and merge numbers",
			Type:         server.GameTypeWebview,
			Image:        "https://images.unsplash.com/photo-1516975080664-ed2fc6a32937?w=800&h=600&fit=crop",
			PreviewVideo: "https://www.w3schools.com/html/mov_bbb.mp4",
			PreviewGif:   "https://media.giphy.com/media/l0HlQ7LRalQqdWfao/giphy.gif",
			GameURL:      "https://play2048.co/",
			SortOrder:    5,
		},
	}

	if err := store.UpsertGames(games); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded %d games into %s\n", len(games), *dbPath)
}
