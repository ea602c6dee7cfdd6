// Package match runs one full game between two agents: field creation, the
// strictly ordered turn loop, combat and effect resolution, and history
// recording. Each driver owns its state and random source exclusively, so
// any number of matches can run concurrently.
package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/agent"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/engine"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/logging"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/mapgen"
)

// ErrDeadline is returned when the match-level deadline expires before the
// game concludes. The caller decides what to do with the unfinished game;
// sibling matches are unaffected.
var ErrDeadline = errors.New("match deadline exceeded")

// Options configures one match.
type Options struct {
	Seed        int64
	TurnLimit   int
	CallTimeout time.Duration
	MapParams   mapgen.Params
	// Field overrides map generation when set. Used by tests and replays.
	Field *game.Field
	// Enemies is the number of roaming enemies spawned at match start.
	Enemies int
}

// DefaultOptions returns the standard tournament settings.
func DefaultOptions() Options {
	return Options{
		TurnLimit:   100,
		CallTimeout: time.Second,
		MapParams:   mapgen.DefaultParams(),
		Enemies:     2,
	}
}

// Driver is the state machine for one match. Not safe for concurrent use;
// a match's turn sequence is strictly ordered by design.
type Driver struct {
	id      string
	agents  [2]agent.Agent
	opts    Options
	rng     *rand.Rand
	field   *game.Field
	players [2]game.PlayerState
	enemies []game.EnemyState

	turns     []game.TurnRecord
	concluded bool
	result    game.Result
}

// New creates a match between two agents: generates the field (unless one
// was injected), places both players on distinct empty nodes and spawns the
// roaming enemies. Any failure here is fatal to starting the match and is
// surfaced before a single turn runs.
func New(id string, agentA, agentB agent.Agent, opts Options) (*Driver, error) {
	d := &Driver{
		id:     id,
		agents: [2]agent.Agent{agentA, agentB},
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}

	if opts.Field != nil {
		d.field = opts.Field
	} else {
		field, err := mapgen.Generate(opts.MapParams, d.rng)
		if err != nil {
			return nil, fmt.Errorf("generate field: %w", err)
		}
		d.field = field
	}

	posA, err := d.field.RandomEmptyNode(nil, d.rng)
	if err != nil {
		return nil, fmt.Errorf("place player A: %w", err)
	}
	posB, err := d.field.RandomEmptyNode([]game.NodeID{posA}, d.rng)
	if err != nil {
		return nil, fmt.Errorf("place player B: %w", err)
	}
	d.players[game.SeatA] = game.NewPlayerState(posA)
	d.players[game.SeatB] = game.NewPlayerState(posB)

	for i := 0; i < opts.Enemies; i++ {
		if err := d.spawnEnemy(); err != nil {
			return nil, fmt.Errorf("spawn enemy: %w", err)
		}
	}
	return d, nil
}

// Run plays the match to conclusion. It returns the outcome, or an error if
// the match could not finish (deadline expiry); a misbehaving agent is
// never an error, it is a forfeit inside the outcome.
func (d *Driver) Run(ctx context.Context) (*game.Outcome, error) {
	logging.Debug("match started", logging.Fields{"game_id": d.id, "seed": d.opts.Seed, "nodes": d.field.NodeCount()})

	for turn := 0; turn < d.opts.TurnLimit; turn++ {
		rec := game.TurnRecord{Turn: turn, Moves: [2]game.NodeID{-1, -1}}
		err := d.playTurn(ctx, &rec)
		rec.Players = d.players
		d.turns = append(d.turns, rec)
		if err != nil {
			return nil, err
		}
		if d.concluded {
			logging.Debug("match concluded", logging.Fields{"game_id": d.id, "turn": turn, "result": d.result})
			return d.outcome(), nil
		}
	}

	d.conclude(game.ResultTie)
	logging.Debug("match concluded at turn limit", logging.Fields{"game_id": d.id})
	return d.outcome(), nil
}

func (d *Driver) outcome() *game.Outcome {
	return &game.Outcome{Result: d.result, Seed: d.opts.Seed, Turns: d.turns}
}

func (d *Driver) conclude(r game.Result) {
	d.concluded = true
	d.result = r
}

// playTurn executes the fixed per-turn sequence: CollectMoves, ApplyMoves,
// ResolveEffects, ResolveCombatIfAny, EnemyPhase, CheckVictory. A non-nil
// error aborts the match (deadline); conclusion is signalled via d.concluded.
func (d *Driver) playTurn(ctx context.Context, rec *game.TurnRecord) error {
	type collected struct {
		targets []game.NodeID
		index   int
		err     error
	}

	// The two move requests are the only intra-turn parallelism. Both
	// results are awaited before any movement is applied so neither seat
	// sees the other's choice.
	var res [2]collected
	var g errgroup.Group
	for s := game.SeatA; s <= game.SeatB; s++ {
		s := s
		g.Go(func() error {
			targets := d.field.OutgoingNodes(d.players[s].Node)
			if len(targets) == 0 {
				res[s] = collected{index: -1}
				return nil
			}
			kinds := make([]game.EffectKind, len(targets))
			for i, n := range targets {
				kinds[i] = d.field.Effect(n)
			}
			cctx, cancel := context.WithTimeout(ctx, d.opts.CallTimeout)
			defer cancel()
			idx, err := d.agents[s].RequestMove(cctx, d.id, agent.MoveChoices{Choices: kinds})
			res[s] = collected{targets: targets, index: idx, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrDeadline, ctx.Err())
	}

	errA, errB := res[game.SeatA].err, res[game.SeatB].err
	switch {
	case errA != nil && errB != nil:
		rec.Events = append(rec.Events,
			game.TurnEvent{Kind: game.EventForfeit, Seat: game.SeatA, Detail: errA.Error()},
			game.TurnEvent{Kind: game.EventForfeit, Seat: game.SeatB, Detail: errB.Error()})
		d.conclude(game.ResultTie)
		return nil
	case errA != nil:
		d.forfeit(game.SeatA, rec, errA)
		return nil
	case errB != nil:
		d.forfeit(game.SeatB, rec, errB)
		return nil
	}

	// ApplyMoves
	for s := game.SeatA; s <= game.SeatB; s++ {
		if res[s].index < 0 {
			rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventStuck, Seat: s})
			continue
		}
		dest := res[s].targets[res[s].index]
		d.players[s].Node = dest
		rec.Moves[s] = dest
		rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventMove, Seat: s, Detail: fmt.Sprintf("to node %d", dest)})
	}

	// ResolveEffects, seat A first. The order is fixed so a seed replays
	// identically; seat fairness is handled at move collection.
	for s := game.SeatA; s <= game.SeatB; s++ {
		if err := d.resolveEffect(ctx, s, rec, true); err != nil {
			return err
		}
		if d.concluded {
			return nil
		}
	}
	if d.checkVictory(rec) {
		return nil
	}

	// ResolveCombatIfAny
	if err := d.resolveCombat(ctx, rec); err != nil {
		return err
	}
	if d.concluded {
		return nil
	}
	if d.checkVictory(rec) {
		return nil
	}

	// EnemyPhase
	d.enemyPhase(rec)
	d.checkVictory(rec)
	return nil
}

// forfeit concludes the match against the offending seat.
func (d *Driver) forfeit(s game.Seat, rec *game.TurnRecord, cause error) {
	logging.Info("agent forfeits", logging.Fields{"game_id": d.id, "seat": s.String(), "cause": cause.Error()})
	rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventForfeit, Seat: s, Detail: cause.Error()})
	d.conclude(game.WinnerOf(s.Opponent()))
}

// protocolFailure routes an agent-call error: a match deadline expiry aborts
// the match, anything else forfeits the seat.
func (d *Driver) protocolFailure(ctx context.Context, s game.Seat, rec *game.TurnRecord, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrDeadline, ctx.Err())
	}
	d.forfeit(s, rec, err)
	return nil
}

// resolveEffect applies the destination node's effect to a seat.
// allowTeleport is false on relocation arrivals so teleports never chain.
func (d *Driver) resolveEffect(ctx context.Context, s game.Seat, rec *game.TurnRecord, allowTeleport bool) error {
	if !d.players[s].Alive() {
		return nil
	}
	node := d.players[s].Node
	switch d.field.Effect(node) {
	case game.EffectHeal:
		engine.ApplyHeal(&d.players[s])
		rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventHeal, Seat: s, Detail: fmt.Sprintf("health %d", d.players[s].Health)})
	case game.EffectGamble:
		return d.resolveGamble(ctx, s, rec)
	case game.EffectTeleport:
		if !allowTeleport {
			return nil
		}
		dest, err := d.field.RandomEmptyNode(d.occupied(), d.rng)
		if err != nil {
			// No empty node: stay in place, play continues.
			rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventTeleport, Seat: s, Detail: "no empty node, stayed"})
			return nil
		}
		d.players[s].Node = dest
		rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventTeleport, Seat: s, Detail: fmt.Sprintf("to node %d", dest)})
		return d.resolveEffect(ctx, s, rec, false)
	}
	return nil
}

func (d *Driver) resolveGamble(ctx context.Context, s game.Seat, rec *game.TurnRecord) error {
	cctx, cancel := context.WithTimeout(ctx, d.opts.CallTimeout)
	choice, err := d.agents[s].RequestGamble(cctx, d.id)
	cancel()
	if err != nil {
		return d.protocolFailure(ctx, s, rec, err)
	}
	// The roll is drawn even on a skip so agent strategy cannot steer the
	// match's random sequence.
	roll := d.rng.Float64()
	detail := engine.ApplyGamble(&d.players[s], choice, roll)
	rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventGamble, Seat: s, Detail: detail})
	return nil
}

// resolveCombat handles collisions after movement and effects: both players
// on one node fight immediately; a player sharing a node with an enemy is
// offered the choice to fight or flee.
func (d *Driver) resolveCombat(ctx context.Context, rec *game.TurnRecord) error {
	if d.players[game.SeatA].Alive() && d.players[game.SeatB].Alive() &&
		d.players[game.SeatA].Node == d.players[game.SeatB].Node {
		d.playerFight(rec)
		return nil
	}

	for s := game.SeatA; s <= game.SeatB; s++ {
		if !d.players[s].Alive() {
			continue
		}
		idx := d.enemyAt(d.players[s].Node)
		if idx < 0 {
			continue
		}
		if err := d.enemyEncounter(ctx, s, idx, rec); err != nil {
			return err
		}
		if d.concluded {
			return nil
		}
	}
	return nil
}

// playerFight resolves a collision between the two players. One sample
// decides it: P(A wins) = powerA / (powerA + powerB). The loser takes one
// damage and is relocated; the winner absorbs half the loser's power.
func (d *Driver) playerFight(rec *game.TurnRecord) {
	powerA := d.players[game.SeatA].Power
	powerB := d.players[game.SeatB].Power
	sample := d.rng.Float64()

	winner := game.SeatB
	if engine.ResolveFight(powerA, powerB, sample) {
		winner = game.SeatA
	}
	loser := winner.Opponent()

	gain := engine.VictorPowerGain(d.players[loser].Power)
	d.players[winner].Power += gain
	engine.ApplyDamage(&d.players[loser])
	rec.Events = append(rec.Events, game.TurnEvent{
		Kind:   game.EventFight,
		Seat:   winner,
		Detail: fmt.Sprintf("wins %d vs %d, +%d power", powerA, powerB, gain),
	})

	if d.players[loser].Alive() {
		d.relocateRaw(loser)
	}
}

// enemyEncounter offers the seat a fight-or-flee choice against the enemy
// occupying its node.
func (d *Driver) enemyEncounter(ctx context.Context, s game.Seat, enemyIdx int, rec *game.TurnRecord) error {
	enemy := d.enemies[enemyIdx]
	cctx, cancel := context.WithTimeout(ctx, d.opts.CallTimeout)
	choice, err := d.agents[s].RequestFight(cctx, d.id, agent.EnemyStats{
		Health:    enemy.Health,
		MaxHealth: game.EnemyHealth,
		Power:     enemy.Power,
	})
	cancel()
	if err != nil {
		return d.protocolFailure(ctx, s, rec, err)
	}

	if choice == game.ChoiceFlee {
		// Fleeing is losing without the damage: relocate and move on.
		rec.Events = append(rec.Events, game.TurnEvent{Kind: game.EventFlee, Seat: s})
		return d.escapeMove(ctx, s, rec)
	}
	d.fightEnemy(s, enemyIdx, rec)
	return nil
}

// fightEnemy resolves a committed fight between a seat and an enemy.
func (d *Driver) fightEnemy(s game.Seat, enemyIdx int, rec *game.TurnRecord) {
	player := &d.players[s]
	enemyPower := d.enemies[enemyIdx].Power
	sample := d.rng.Float64()

	if engine.ResolveFight(player.Power, enemyPower, sample) {
		gain := engine.VictorPowerGain(enemyPower)
		player.Power += gain
		rec.Events = append(rec.Events, game.TurnEvent{
			Kind:   game.EventEnemyFight,
			Seat:   s,
			Detail: fmt.Sprintf("beats enemy (%d power), +%d power", enemyPower, gain),
		})
		d.respawnEnemy(enemyIdx)
		return
	}

	engine.ApplyDamage(player)
	rec.Events = append(rec.Events, game.TurnEvent{
		Kind:   game.EventEnemyFight,
		Seat:   s,
		Detail: fmt.Sprintf("loses to enemy (%d power)", enemyPower),
	})
	if player.Alive() {
		d.relocateRaw(s)
	}
}

// enemyPhase moves each enemy one random step. An enemy landing on a player
// forces a fight with no choice offered.
func (d *Driver) enemyPhase(rec *game.TurnRecord) {
	for i := range d.enemies {
		blocked := make([]game.NodeID, 0, len(d.enemies))
		for j := range d.enemies {
			if j != i {
				blocked = append(blocked, d.enemies[j].Node)
			}
		}
		moves := d.field.ShuffledMoves(d.enemies[i].Node, blocked, d.rng)
		if len(moves) == 0 {
			continue
		}
		d.enemies[i].Node = moves[0]

		for s := game.SeatA; s <= game.SeatB; s++ {
			if d.players[s].Alive() && d.players[s].Node == d.enemies[i].Node {
				d.fightEnemy(s, i, rec)
			}
		}
	}
}

// relocateRaw moves a beaten player to a random empty node with no arrival
// effects. Stays in place when the field has no empty node.
func (d *Driver) relocateRaw(s game.Seat) {
	dest, err := d.field.RandomEmptyNode(d.occupied(), d.rng)
	if err != nil {
		return
	}
	d.players[s].Node = dest
}

// escapeMove relocates a fleeing player to a random empty node and applies
// the arrival effect (teleports never chain off an escape).
func (d *Driver) escapeMove(ctx context.Context, s game.Seat, rec *game.TurnRecord) error {
	dest, err := d.field.RandomEmptyNode(d.occupied(), d.rng)
	if err != nil {
		return nil
	}
	d.players[s].Node = dest
	return d.resolveEffect(ctx, s, rec, false)
}

// checkVictory concludes the match when a seat's health reached zero. Both
// seats dying in the same turn is a tie.
func (d *Driver) checkVictory(rec *game.TurnRecord) bool {
	aliveA := d.players[game.SeatA].Alive()
	aliveB := d.players[game.SeatB].Alive()
	switch {
	case aliveA && aliveB:
		return false
	case !aliveA && !aliveB:
		d.conclude(game.ResultTie)
	case !aliveA:
		d.conclude(game.ResultPlayerBWin)
	default:
		d.conclude(game.ResultPlayerAWin)
	}
	return true
}

// occupied lists every node currently holding a player or an enemy.
func (d *Driver) occupied() []game.NodeID {
	nodes := make([]game.NodeID, 0, 2+len(d.enemies))
	for s := game.SeatA; s <= game.SeatB; s++ {
		nodes = append(nodes, d.players[s].Node)
	}
	for i := range d.enemies {
		nodes = append(nodes, d.enemies[i].Node)
	}
	return nodes
}

func (d *Driver) enemyAt(n game.NodeID) int {
	for i := range d.enemies {
		if d.enemies[i].Node == n {
			return i
		}
	}
	return -1
}

func (d *Driver) spawnEnemy() error {
	node, err := d.field.RandomEmptyNode(d.occupied(), d.rng)
	if err != nil {
		return err
	}
	d.enemies = append(d.enemies, game.EnemyState{
		Health: game.EnemyHealth,
		Power:  game.EnemyMinPower + d.rng.Intn(game.EnemyMaxPower-game.EnemyMinPower+1),
		Node:   node,
	})
	return nil
}

// respawnEnemy rerolls a defeated enemy's stats and places it on a random
// empty node; with no empty node available it keeps its current position.
func (d *Driver) respawnEnemy(enemyIdx int) {
	d.enemies[enemyIdx].Health = game.EnemyHealth
	d.enemies[enemyIdx].Power = game.EnemyMinPower + d.rng.Intn(game.EnemyMaxPower-game.EnemyMinPower+1)
	if node, err := d.field.RandomEmptyNode(d.occupied(), d.rng); err == nil {
		d.enemies[enemyIdx].Node = node
	}
}
