// Command feed is a terminal client for the game feed engine: it loads the
// catalog, lets you flip through games and records scores, persisting local
// state to a sqlite file the way the mobile shell would.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/caffeinum/rork-casual-game-flip/internal/feed"
)

func main() {
	var (
		api   = flag.String("api", "http://localhost:8080", "remote service base URL")
		state = flag.String("state", "./feed-state.db", "local state database path")
	)
	flag.Parse()

	kv, err := feed.OpenKV(*state)
	if err != nil {
		log.Fatal(err)
	}
	defer kv.Close()

	engine := feed.New(feed.Options{
		BaseURL: *api,
		KV:      kv,
	})

	result := engine.Load(context.Background())
	if result.Fallback {
		fmt.Println("remote service unreachable, showing the built-in catalog")
	}
	fmt.Printf("signed in as %s\n", engine.Identity.Token())
	printFeed(engine)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "next":
			if err := engine.Session.Navigate(1); err != nil {
				fmt.Println(err)
				continue
			}
			printFeed(engine)
		case "prev":
			if err := engine.Session.Navigate(-1); err != nil {
				fmt.Println(err)
				continue
			}
			printFeed(engine)
		case "jump":
			index, err := intArg(fields)
			if err != nil {
				fmt.Println("usage: jump <index>")
				continue
			}
			if err := engine.Session.Jump(index); err != nil {
				fmt.Println(err)
				continue
			}
			printFeed(engine)
		case "play":
			if err := engine.Session.SelectGame(engine.Session.ActiveIndex()); err != nil {
				fmt.Println(err)
				continue
			}
			game, _ := engine.Session.ActiveGame()
			fmt.Printf("playing %s, finish with: end <score>\n", game.Title)
		case "end":
			score, err := intArg(fields)
			if err != nil {
				fmt.Println("usage: end <score>")
				continue
			}
			engine.Session.GameEnded(score)
			printFeed(engine)
		case "quit", "exit":
			engine.Sync.Flush()
			return
		default:
			fmt.Println("commands: next, prev, jump <i>, play, end <score>, quit")
		}
	}
	engine.Sync.Flush()
}

func intArg(fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("missing argument")
	}
	return strconv.Atoi(fields[1])
}

func printFeed(engine *feed.Engine) {
	games := engine.Session.Games()
	active := engine.Session.ActiveIndex()
	for i, game := range games {
		marker := "  "
		if i == active {
			marker = "> "
		}
		best := engine.Scores.Best(game.ID)
		fmt.Printf("%s%d. %s (%s) best=%d\n", marker, i, game.Title, game.Type, best)
	}
	fmt.Printf("mode=%s\n", engine.Session.Mode())
}
