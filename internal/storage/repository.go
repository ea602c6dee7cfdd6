package storage

import "github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"

// Repository persists match results. It is the only resource shared across
// concurrently concluding matches; implementations must keep every write
// independently safe (one transaction per game, no partial writes).
type Repository interface {
	// EnsureMatchup returns the row for a pair of agents, creating it on
	// first use. The pair is stored in canonical seat order.
	EnsureMatchup(playerA, playerB string) (*game.Matchup, error)
	// CreateGame inserts a pending game with its seed before any turn runs,
	// so an aborted game still leaves an auditable trace.
	CreateGame(matchupID uint, gameNumber int, gameUUID string, seed int64, reversed bool) (*game.GameRecord, error)
	// FinishGame writes the winner and the full turn history in a single
	// transaction.
	FinishGame(gameRecordID uint, winner game.Result, turns []game.TurnRecord) error
	GetMatchups() ([]game.Matchup, error)
	GetGamesByMatchup(matchupID uint) ([]game.GameRecord, error)
	GetTurns(gameRecordID uint) ([]game.TurnRow, error)
}
