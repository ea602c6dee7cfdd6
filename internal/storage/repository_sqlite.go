package storage

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/keys"
)

type sqliteRepository struct {
	db *gorm.DB
	// matchups deduplicates concurrent row creation for the same pair:
	// games of one matchup start in parallel and all need the same row.
	matchups singleflight.Group
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) EnsureMatchup(playerA, playerB string) (*game.Matchup, error) {
	key := keys.MatchupKey(playerA, playerB)
	v, err, _ := r.matchups.Do(key, func() (interface{}, error) {
		first, second := keys.MatchupOrder(playerA, playerB)
		var m game.Matchup
		err := r.db.Where("player_a = ? AND player_b = ?", first, second).First(&m).Error
		if err == nil {
			return &m, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("look up matchup %s: %w", key, err)
		}
		m = game.Matchup{PlayerA: first, PlayerB: second}
		if err := r.db.Create(&m).Error; err != nil {
			return nil, fmt.Errorf("create matchup %s: %w", key, err)
		}
		return &m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.Matchup), nil
}

func (r *sqliteRepository) CreateGame(matchupID uint, gameNumber int, gameUUID string, seed int64, reversed bool) (*game.GameRecord, error) {
	rec := game.GameRecord{
		MatchupID:  matchupID,
		GameNumber: gameNumber,
		GameUUID:   gameUUID,
		Winner:     game.ResultPending,
		Seed:       seed,
		Reversed:   reversed,
	}
	if err := r.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create game %d of matchup %d: %w", gameNumber, matchupID, err)
	}
	return &rec, nil
}

func (r *sqliteRepository) FinishGame(gameRecordID uint, winner game.Result, turns []game.TurnRecord) error {
	rows := make([]game.TurnRow, 0, len(turns))
	for _, t := range turns {
		rows = append(rows, turnRow(gameRecordID, t))
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.GameRecord{}).
			Where("id = ?", gameRecordID).
			Update("winner", winner)
		if res.Error != nil {
			return fmt.Errorf("update winner of game %d: %w", gameRecordID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("game %d not found", gameRecordID)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert turns of game %d: %w", gameRecordID, err)
			}
		}
		return nil
	})
}

func (r *sqliteRepository) GetMatchups() ([]game.Matchup, error) {
	var matchups []game.Matchup
	if err := r.db.Order("id").Find(&matchups).Error; err != nil {
		return nil, err
	}
	return matchups, nil
}

func (r *sqliteRepository) GetGamesByMatchup(matchupID uint) ([]game.GameRecord, error) {
	var games []game.GameRecord
	if err := r.db.Where("matchup_id = ?", matchupID).Order("game_number").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *sqliteRepository) GetTurns(gameRecordID uint) ([]game.TurnRow, error) {
	var rows []game.TurnRow
	if err := r.db.Where("game_record_id = ?", gameRecordID).Order("turn_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// turnRow flattens one in-memory turn record into its persisted shape.
func turnRow(gameRecordID uint, t game.TurnRecord) game.TurnRow {
	summaries := make([]string, 0, len(t.Events))
	for _, ev := range t.Events {
		s := fmt.Sprintf("%s:%s", ev.Seat, ev.Kind)
		if ev.Detail != "" {
			s += " " + ev.Detail
		}
		summaries = append(summaries, s)
	}
	return game.TurnRow{
		GameRecordID: gameRecordID,
		TurnNumber:   t.Turn,
		ANode:        int(t.Players[game.SeatA].Node),
		AHealth:      t.Players[game.SeatA].Health,
		APower:       t.Players[game.SeatA].Power,
		BNode:        int(t.Players[game.SeatB].Node),
		BHealth:      t.Players[game.SeatB].Health,
		BPower:       t.Players[game.SeatB].Power,
		Summary:      strings.Join(summaries, "; "),
	}
}
