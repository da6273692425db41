// Command server runs the noteboard web application: a public news feed
// with moderated comments and a private notes area per user.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nkazarin/noteboard/internal/config"
	"github.com/nkazarin/noteboard/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file (\"\" to run on defaults)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
