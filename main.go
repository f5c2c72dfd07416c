package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/caffeinum/rork-casual-game-flip/internal/server"
	"github.com/caffeinum/rork-casual-game-flip/internal/storage"
)

type config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"./data/games.db"`
	CatalogRefresh  time.Duration `env:"CATALOG_REFRESH" envDefault:"1m"`
	SubmitInterval  time.Duration `env:"SUBMIT_INTERVAL" envDefault:"30s"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	CORSEnabled     bool          `env:"CORS_ENABLED" envDefault:"true"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}

	// Flags override the environment.
	addr := flag.String("addr", cfg.Addr, "listen address")
	dbPath := flag.String("db", cfg.DBPath, "sqlite database path")
	flag.Parse()

	store, err := storage.Open(*dbPath, storage.Options{
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	s, err := server.New(store, store, server.Config{
		Addr:            *addr,
		CatalogRefresh:  cfg.CatalogRefresh,
		SubmitInterval:  cfg.SubmitInterval,
		SessionDuration: cfg.SessionDuration,
		CORSEnabled:     cfg.CORSEnabled,
	})
	if err != nil {
		log.Fatal(err)
	}

	password, err := s.AuthManager().InitializeAdmin()
	if err != nil {
		log.Fatal(err)
	}
	if password != "" {
		log.Printf("level=info msg=\"admin account created\" username=admin password=%s", password)
	}

	// graceful-ish stop
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Println("shutting down...")
		_ = s.Close()
	}()

	log.Printf("game feed service listening on http://localhost%s (db=%s)\n", *addr, *dbPath)
	log.Fatal(s.Start())
}
