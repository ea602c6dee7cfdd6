package storage

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

func testRepository(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "results.sqlite"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	return NewSQLiteRepository(db)
}

func TestEnsureMatchup_CanonicalOrder(t *testing.T) {
	repo := testRepository(t)

	m1, err := repo.EnsureMatchup("zeta", "alpha")
	if err != nil {
		t.Fatalf("ensure matchup: %v", err)
	}
	if m1.PlayerA != "alpha" || m1.PlayerB != "zeta" {
		t.Fatalf("pair not stored in canonical order: %q, %q", m1.PlayerA, m1.PlayerB)
	}

	m2, err := repo.EnsureMatchup("alpha", "zeta")
	if err != nil {
		t.Fatalf("ensure matchup again: %v", err)
	}
	if m2.ID != m1.ID {
		t.Fatalf("same pair must map to one row, got ids %d and %d", m1.ID, m2.ID)
	}

	all, err := repo.GetMatchups()
	if err != nil {
		t.Fatalf("get matchups: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single matchup row, got %d", len(all))
	}
}

func TestEnsureMatchup_ConcurrentCallsShareOneRow(t *testing.T) {
	repo := testRepository(t)

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	for i := 0; i < len(ids); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := repo.EnsureMatchup("left", "right")
			if err != nil {
				t.Errorf("ensure matchup: %v", err)
				return
			}
			ids[i] = m.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent callers got different rows: %v", ids)
		}
	}
}

func TestCreateAndFinishGame(t *testing.T) {
	repo := testRepository(t)

	m, err := repo.EnsureMatchup("a", "b")
	if err != nil {
		t.Fatalf("ensure matchup: %v", err)
	}
	rec, err := repo.CreateGame(m.ID, 0, "uuid-1", 42, false)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if rec.Winner != game.ResultPending {
		t.Fatalf("fresh game must be pending, got %v", rec.Winner)
	}

	turns := []game.TurnRecord{
		{
			Turn:  0,
			Moves: [2]game.NodeID{3, 7},
			Events: []game.TurnEvent{
				{Kind: game.EventMove, Seat: game.SeatA, Detail: "to node 3"},
				{Kind: game.EventMove, Seat: game.SeatB, Detail: "to node 7"},
			},
			Players: [2]game.PlayerState{
				{Health: 3, Power: 5, Node: 3},
				{Health: 3, Power: 5, Node: 7},
			},
		},
		{
			Turn:  1,
			Moves: [2]game.NodeID{5, 5},
			Events: []game.TurnEvent{
				{Kind: game.EventFight, Seat: game.SeatA, Detail: "wins 5 vs 5, +2 power"},
			},
			Players: [2]game.PlayerState{
				{Health: 3, Power: 7, Node: 5},
				{Health: 2, Power: 5, Node: 1},
			},
		},
	}
	if err := repo.FinishGame(rec.ID, game.ResultPlayerAWin, turns); err != nil {
		t.Fatalf("finish game: %v", err)
	}

	games, err := repo.GetGamesByMatchup(m.ID)
	if err != nil {
		t.Fatalf("get games: %v", err)
	}
	if len(games) != 1 || games[0].Winner != game.ResultPlayerAWin {
		t.Fatalf("unexpected games: %+v", games)
	}

	rows, err := repo.GetTurns(rec.ID)
	if err != nil {
		t.Fatalf("get turns: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 turn rows, got %d", len(rows))
	}
	if rows[0].TurnNumber != 0 || rows[1].TurnNumber != 1 {
		t.Fatalf("turn rows out of order: %+v", rows)
	}
	if rows[1].APower != 7 || rows[1].BHealth != 2 {
		t.Fatalf("player state not flattened correctly: %+v", rows[1])
	}
	if rows[0].Summary == "" {
		t.Fatalf("turn summary must not be empty")
	}
}

func TestFinishGame_UnknownGame(t *testing.T) {
	repo := testRepository(t)

	if err := repo.FinishGame(12345, game.ResultTie, nil); err == nil {
		t.Fatalf("finishing a game that was never created must fail")
	}
}

func TestFinishGame_NoTurns(t *testing.T) {
	repo := testRepository(t)

	m, err := repo.EnsureMatchup("a", "b")
	if err != nil {
		t.Fatalf("ensure matchup: %v", err)
	}
	rec, err := repo.CreateGame(m.ID, 0, "uuid-1", 1, true)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := repo.FinishGame(rec.ID, game.ResultTie, nil); err != nil {
		t.Fatalf("finish game without turns: %v", err)
	}

	games, err := repo.GetGamesByMatchup(m.ID)
	if err != nil {
		t.Fatalf("get games: %v", err)
	}
	if games[0].Winner != game.ResultTie || !games[0].Reversed {
		t.Fatalf("unexpected game row: %+v", games[0])
	}
}
