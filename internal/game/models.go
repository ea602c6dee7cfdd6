package game

import "gorm.io/gorm"

// Persisted result shapes. The engine emits in-memory Outcome values; these
// models are how the storage collaborator encodes them.

// Matchup is a fixed pairing of two agents across a batch of repeated games.
// Seats are stored in canonical order (see keys.MatchupOrder) so the pair is
// unique regardless of scheduling order.
type Matchup struct {
	gorm.Model
	PlayerA string       `json:"player_a" gorm:"uniqueIndex:idx_matchup_pair"`
	PlayerB string       `json:"player_b" gorm:"uniqueIndex:idx_matchup_pair"`
	Games   []GameRecord `json:"games"`
}

func (Matchup) TableName() string { return "matchups" }

// GameRecord is one completed (or pending) game inside a matchup. Winner is
// a Result value; it stays "pending" until the game concludes. Reversed
// marks games where the matchup's player_b played seat A, which the runner
// does on every other game to cancel seat bias.
type GameRecord struct {
	gorm.Model
	MatchupID  uint      `json:"-" gorm:"uniqueIndex:idx_matchup_game"`
	GameNumber int       `json:"game_number" gorm:"uniqueIndex:idx_matchup_game"`
	GameUUID   string    `json:"game_uuid" gorm:"index"`
	Winner     Result    `json:"winner"`
	Seed       int64     `json:"seed"`
	Reversed   bool      `json:"reversed"`
	Turns      []TurnRow `json:"turns" gorm:"foreignKey:GameRecordID"`
}

func (GameRecord) TableName() string { return "games" }

// TurnRow is the persisted form of one TurnRecord: per-seat position and
// stats after the turn plus a compact event summary.
type TurnRow struct {
	gorm.Model
	GameRecordID uint   `json:"-" gorm:"uniqueIndex:idx_game_turn"`
	TurnNumber   int    `json:"turn_number" gorm:"uniqueIndex:idx_game_turn"`
	ANode        int    `json:"a_node"`
	AHealth      int    `json:"a_health"`
	APower       int    `json:"a_power"`
	BNode        int    `json:"b_node"`
	BHealth      int    `json:"b_health"`
	BPower       int    `json:"b_power"`
	Summary      string `json:"summary"`
}

func (TurnRow) TableName() string { return "turns" }
