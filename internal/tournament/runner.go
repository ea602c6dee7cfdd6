// Package tournament drives the round-robin schedule around the match
// engine: it pairs agents, runs the repeated games of each matchup
// concurrently and hands finished outcomes to the persistence sink.
package tournament

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/agent"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/config"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/constants"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/logging"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/match"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/storage"
)

const (
	readyTimeout  = 10 * time.Second
	readyInterval = 100 * time.Millisecond
)

type Runner struct {
	cfg  *config.Config
	repo storage.Repository
}

func NewRunner(cfg *config.Config, repo storage.Repository) *Runner {
	return &Runner{cfg: cfg, repo: repo}
}

// Run plays the full round-robin schedule. A matchup that cannot start is
// logged and skipped; it never stops the tournament.
func (r *Runner) Run(ctx context.Context) error {
	pairs := Pairs(r.cfg.Agents)
	logging.Info("tournament starting", logging.Fields{"agents": len(r.cfg.Agents), "matchups": len(pairs)})

	for _, pair := range pairs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := r.runMatchup(ctx, pair[0], pair[1]); err != nil {
			logging.Error("matchup failed", err, logging.Fields{
				constants.LogFieldMatchup: pair[0].Name + " vs " + pair[1].Name,
			})
		}
	}

	logging.Info("tournament completed", nil)
	return nil
}

func (r *Runner) runMatchup(ctx context.Context, entryA, entryB config.AgentEntry) error {
	clientA := agent.NewClient(entryA.Name, entryA.URL, r.cfg.CallTimeout)
	clientB := agent.NewClient(entryB.Name, entryB.URL, r.cfg.CallTimeout)

	readyCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	var ready errgroup.Group
	ready.Go(func() error { return clientA.WaitReady(readyCtx, readyInterval) })
	ready.Go(func() error { return clientB.WaitReady(readyCtx, readyInterval) })
	if err := ready.Wait(); err != nil {
		return fmt.Errorf("agents not ready: %w", err)
	}

	m, err := r.repo.EnsureMatchup(clientA.Name(), clientB.Name())
	if err != nil {
		return err
	}
	logging.Info("matchup starting", logging.Fields{
		constants.LogFieldMatchup: m.PlayerA + " vs " + m.PlayerB,
		"games":                   r.cfg.RoundsPerPair,
	})

	first, second, err := seatAgents(m, clientA, clientB)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(r.cfg.MaxConcurrentGames)
	for i := 0; i < r.cfg.RoundsPerPair; i++ {
		i := i
		g.Go(func() error {
			// Alternate seats between games to cancel any seat bias.
			reversed := i%2 == 1
			a, b := first, second
			if reversed {
				a, b = b, a
			}
			r.runGame(ctx, m, i, reversed, a, b)
			return nil
		})
	}
	return g.Wait()
}

// runGame plays and persists one game. Failures are confined to this game:
// they are logged and leave at most a pending record behind.
func (r *Runner) runGame(ctx context.Context, m *game.Matchup, number int, reversed bool, first, second agent.Agent) {
	seed := rand.Int63()
	gameID := uuid.NewString()

	rec, err := r.repo.CreateGame(m.ID, number, gameID, seed, reversed)
	if err != nil {
		logging.Error("failed to create game record", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}

	opts := match.Options{
		Seed:        seed,
		TurnLimit:   r.cfg.TurnsPerGame,
		CallTimeout: r.cfg.CallTimeout,
		MapParams:   r.cfg.Map,
		Enemies:     r.cfg.Enemies,
	}
	driver, err := match.New(gameID, first, second, opts)
	if err != nil {
		logging.Error("failed to start game", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}

	gctx, cancel := context.WithTimeout(ctx, r.cfg.GameTimeout)
	defer cancel()
	outcome, err := driver.Run(gctx)
	if err != nil {
		logging.Warn("game did not finish", logging.Fields{constants.LogFieldGameID: gameID, "error": err.Error()})
		return
	}

	winner := outcome.Result
	if reversed {
		winner = swapSeats(winner)
	}

	if err := r.persistOutcome(rec.ID, winner, outcome); err != nil {
		logging.Error("failed to persist game result", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	logging.Info("game completed", logging.Fields{
		constants.LogFieldGameID: gameID,
		constants.LogFieldWinner: winner,
		"turns":                  len(outcome.Turns),
	})
}

// persistOutcome writes the result, retrying once: the outcome stays in
// memory until a write succeeds, so a transient storage error cannot lose
// the turn history.
func (r *Runner) persistOutcome(recID uint, winner game.Result, outcome *game.Outcome) error {
	err := r.repo.FinishGame(recID, winner, outcome.Turns)
	if err == nil {
		return nil
	}
	logging.Warn("retrying result write", logging.Fields{"error": err.Error()})
	time.Sleep(100 * time.Millisecond)
	return r.repo.FinishGame(recID, winner, outcome.Turns)
}

// seatAgents maps the matchup row's canonical seat order back onto the two
// clients. Row names may carry a different casing than the current config
// when the row predates a config edit, so the match is case-insensitive.
func seatAgents(m *game.Matchup, clientA, clientB agent.Agent) (agent.Agent, agent.Agent, error) {
	clients := map[string]agent.Agent{
		strings.ToLower(clientA.Name()): clientA,
		strings.ToLower(clientB.Name()): clientB,
	}
	first := clients[strings.ToLower(m.PlayerA)]
	second := clients[strings.ToLower(m.PlayerB)]
	if first == nil || second == nil {
		return nil, nil, fmt.Errorf("matchup row %q vs %q does not match agents %q and %q",
			m.PlayerA, m.PlayerB, clientA.Name(), clientB.Name())
	}
	return first, second, nil
}

// swapSeats maps a seat-relative result back to matchup seat order for
// games played with seats reversed.
func swapSeats(r game.Result) game.Result {
	switch r {
	case game.ResultPlayerAWin:
		return game.ResultPlayerBWin
	case game.ResultPlayerBWin:
		return game.ResultPlayerAWin
	default:
		return r
	}
}
