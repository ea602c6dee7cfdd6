package main

import (
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/config"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/logging"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/storage"
)

func loadConfigOrExit(path string) *config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid tournament configuration", err, logging.Fields{
			"config_path": path,
			"hint":        "create a tournament_config.json with an 'agents' array of {name,url} entries and optional keys: rounds_per_pair, turns_per_game, call_timeout_seconds, game_timeout_seconds, max_concurrent_games, database_path, enemies, map",
		})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
