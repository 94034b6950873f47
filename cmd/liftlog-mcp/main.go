package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/remote"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	mgr := session.NewManager(client, state, log)
	signedIn, err := mgr.Restore(context.Background())
	if err != nil {
		log.Error("session restore failed", "error", err)
		os.Exit(1)
	}
	if !signedIn {
		log.Error("not signed in; run liftlog first and sign in")
		os.Exit(1)
	}

	s := mcp.New(store.New(client), Version, log)
	log.Info("liftlog-mcp serving on stdio", "version", Version)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}
