package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/importer"
	"github.com/claude/liftlog/internal/remote"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to CSV file (required)")
	dryRun := flag.Bool("dry-run", false, "parse and count rows without writing")
	verbose := flag.Bool("verbose", false, "log each skipped row with its reason")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-import", Version)
		return
	}

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml -file sets.csv [-dry-run] [-verbose]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := remote.NewClient(cfg.Service.URL, cfg.Service.AnonKey)

	state, err := session.OpenStateDB(cfg.Client.StateDir)
	if err != nil {
		log.Error("failed to open state", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	ctx := context.Background()
	mgr := session.NewManager(client, state, log)
	signedIn, err := mgr.Restore(ctx)
	if err != nil {
		log.Error("session restore failed", "error", err)
		os.Exit(1)
	}
	if !signedIn && !*dryRun {
		log.Error("not signed in; run liftlog first and sign in")
		os.Exit(1)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Error("failed to open file", "path", *filePath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written")
	}

	imp := importer.New(store.New(client), log, *dryRun)
	stats, err := imp.Import(ctx, f)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(stats)
}
