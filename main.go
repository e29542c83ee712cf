package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/isaacjstriker/blockfall/games/blockfall"
	"github.com/isaacjstriker/blockfall/internal/api"
	"github.com/isaacjstriker/blockfall/internal/bestscore"
	"github.com/isaacjstriker/blockfall/internal/config"
	"github.com/isaacjstriker/blockfall/internal/database"
	"github.com/isaacjstriker/blockfall/ui"
)

const defaultServeDatabase = "sqlite://blockfall.db"

func usage() {
	fmt.Println("Usage: blockfall [command]")
	fmt.Println()
	fmt.Println("  (none)          open the menu")
	fmt.Println("  play [arcade]   start a game right away")
	fmt.Println("  serve           run the web server")
	fmt.Println("  best            print the best score")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		err = runMenu(ctx, cfg)
	case "play":
		arcade := cfg.Arcade || (len(os.Args) > 2 && os.Args[2] == "arcade")
		err = runLocal(ctx, cfg, arcade)
	case "serve":
		err = runServer(cfg)
	case "best":
		err = printBest(ctx, cfg)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Println("Unknown command:", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// openStore picks the database when DATABASE_URL is set and the local file
// otherwise. The returned close func is never nil.
func openStore(cfg *config.Config) (bestscore.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return bestscore.NewFileStore(cfg.BestScoreFile), func() {}, nil
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.CreateTables(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

func runMenu(ctx context.Context, cfg *config.Config) error {
	for {
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		tracker := bestscore.NewTracker(store, cfg.BestScoreKey)
		best := tracker.Load(ctx)
		closeStore()

		switch ui.NewMainMenu(cfg.AppName, best).Show() {
		case ui.MenuClassic:
			err = runLocal(ctx, cfg, false)
		case ui.MenuArcade:
			err = runLocal(ctx, cfg, true)
		default:
			fmt.Println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func runLocal(ctx context.Context, cfg *config.Config, arcade bool) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	session := blockfall.NewSession(blockfall.WithTuning(cfg.Tuning()), blockfall.WithArcade(arcade))
	tracker := bestscore.NewTracker(store, cfg.BestScoreKey)

	snap, err := ui.NewTerminal(session, tracker).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("\nFinal Score: %d  Lines: %d  Level: %d  Best: %d\n", snap.Score, snap.Lines, snap.Level, tracker.Best())
	return nil
}

func runServer(cfg *config.Config) error {
	url := cfg.DatabaseURL
	if url == "" {
		url = defaultServeDatabase
	}
	db, err := database.Connect(url)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateTables(); err != nil {
		return err
	}

	server := api.NewAPIServer(cfg.Addr(), db, cfg, cfg.Tuning())
	return server.Start()
}

func printBest(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	best := bestscore.NewTracker(store, cfg.BestScoreKey).Load(ctx)
	fmt.Println(best)
	return nil
}
