package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/constants"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/logging"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/tournament"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/version"
)

func main() {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./tournament_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via RPLCS_DB, overriding the
	// config file. Defaults live in the config loader.
	if dbPath := os.Getenv(constants.EnvDBPath); dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	repo := createRepositoryOrExit(cfg.DatabasePath)

	logging.Info("tournament runner starting", logging.Fields{
		"version":  version.Version,
		"commit":   version.Commit,
		"built":    version.Date,
		"dirty":    version.Dirty,
		"agents":   len(cfg.Agents),
		"db":       cfg.DatabasePath,
		"per_pair": cfg.RoundsPerPair,
		"turn_cap": cfg.TurnsPerGame,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := tournament.NewRunner(cfg, repo)
	if err := runner.Run(ctx); err != nil {
		logging.Fatal("tournament aborted", err, nil)
	}
}
