package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/deeplink"
	"github.com/claude/liftlog/internal/remote"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/tui"
	"github.com/claude/liftlog/internal/units"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	linkURL := flag.String("url", "", "open a liftlog:// deep link on launch")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to the configured file.
	logOut := io.Writer(io.Discard)
	if cfg.Client.LogFile != "" {
		f, err := os.OpenFile(cfg.Client.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("liftlog starting", "version", Version)

	client := remote.NewClient(cfg.Service.URL, cfg.Service.AnonKey)

	state, err := session.OpenStateDB(cfg.Client.StateDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening state: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	mgr := session.NewManager(client, state, log)

	ctx := context.Background()
	signedIn, err := mgr.Restore(ctx)
	if err != nil {
		log.Warn("session restore failed", "error", err)
	}

	st := store.New(client)
	unit := units.Kilograms
	if signedIn {
		unit = units.Load(ctx, profileUnits{st}, log)
	}

	var link *deeplink.Link
	parser := deeplink.NewParser(cfg.Links.Prefixes)
	if *linkURL != "" {
		link, err = parser.Parse(*linkURL)
		if err != nil {
			log.Warn("ignoring unparseable link", "url", *linkURL, "error", err)
		}
	}

	deps := &tui.Deps{
		Store:   st,
		Session: mgr,
		Links:   parser,
		Log:     log,
		Styles:  tui.NewStyles(),
	}
	if err := tui.Run(tui.NewApp(deps, unit, link)); err != nil {
		log.Error("ui exited", "error", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// profileUnits adapts the store to the units loader.
type profileUnits struct {
	st *store.Store
}

func (p profileUnits) DefaultUnitsPreference(ctx context.Context) (string, error) {
	profile, err := p.st.GetProfile(ctx)
	if err != nil {
		return "", err
	}
	return profile.DefaultUnits, nil
}
