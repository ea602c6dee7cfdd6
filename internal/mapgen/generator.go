// Package mapgen builds the randomized playing field for one match.
//
// The generator first lays a random directed cycle over all nodes so every
// node is reachable and has at least one outgoing edge, then sprinkles extra
// edges up to a density parameter. Node effects are assigned independently
// from configured weights.
package mapgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

// MinNodes is the smallest legal field: both seats plus one empty node so a
// teleport target always exists at match start.
const MinNodes = 3

// Fraction of extra edges that become bidirectional, matching the bias the
// field has always been generated with.
const undirectedBias = 0.85

var ErrTooFewNodes = errors.New("node count too small for a playable field")

// Params controls one field generation.
type Params struct {
	MinNodeCount int
	MaxNodeCount int
	// ExtraEdgeDensity scales how many edges are added on top of the
	// spanning cycle: extra = density * node count.
	ExtraEdgeDensity float64
	// Per-node effect weights. They need not sum to 1; relative size is
	// what matters. Leftover probability mass goes to EffectNone when the
	// sum is below 1.
	HealWeight     float64
	GambleWeight   float64
	TeleportWeight float64
}

// DefaultParams mirrors the long-standing field shape: 12-16 nodes, about
// one third extra connectivity, a rare teleport and a few heal/gamble nodes.
func DefaultParams() Params {
	return Params{
		MinNodeCount:     12,
		MaxNodeCount:     16,
		ExtraEdgeDensity: 0.35,
		HealWeight:       0.12,
		GambleWeight:     0.12,
		TeleportWeight:   0.08,
	}
}

// Validate reports whether the parameters can produce a playable field.
func (p Params) Validate() error {
	if p.MinNodeCount < MinNodes {
		return fmt.Errorf("min node count %d: %w", p.MinNodeCount, ErrTooFewNodes)
	}
	if p.MaxNodeCount < p.MinNodeCount {
		return fmt.Errorf("max node count %d below min %d", p.MaxNodeCount, p.MinNodeCount)
	}
	if p.ExtraEdgeDensity < 0 {
		return fmt.Errorf("extra edge density must not be negative, got %v", p.ExtraEdgeDensity)
	}
	if p.HealWeight < 0 || p.GambleWeight < 0 || p.TeleportWeight < 0 {
		return errors.New("effect weights must not be negative")
	}
	if p.HealWeight+p.GambleWeight+p.TeleportWeight > 1 {
		return errors.New("effect weights must sum to at most 1")
	}
	return nil
}

// Generate returns a connected field drawn from p using rng. The same rng
// state always yields the same field.
func Generate(p Params, rng *rand.Rand) (*game.Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.MinNodeCount
	if p.MaxNodeCount > p.MinNodeCount {
		n += rng.Intn(p.MaxNodeCount - p.MinNodeCount + 1)
	}

	effects := make([]game.EffectKind, n)
	for i := range effects {
		effects[i] = rollEffect(p, rng)
	}

	// Spanning cycle over a random permutation: strongly connected, and no
	// node is ever left without a legal move.
	perm := rng.Perm(n)
	edges := make([]game.Edge, 0, n*2)
	seen := make(map[[2]game.NodeID]bool, n*2)
	addEdge := func(e game.Edge) {
		edges = append(edges, e)
		seen[[2]game.NodeID{e.From, e.To}] = true
		if !e.Directed {
			seen[[2]game.NodeID{e.To, e.From}] = true
		}
	}
	for i := 0; i < n; i++ {
		from := game.NodeID(perm[i])
		to := game.NodeID(perm[(i+1)%n])
		addEdge(game.Edge{From: from, To: to, Directed: true})
	}

	extra := int(p.ExtraEdgeDensity * float64(n))
	for i := 0; i < extra; i++ {
		from := game.NodeID(rng.Intn(n))
		to := game.NodeID(rng.Intn(n))
		if from == to || seen[[2]game.NodeID{from, to}] {
			continue
		}
		addEdge(game.Edge{From: from, To: to, Directed: rng.Float64() >= undirectedBias})
	}

	return game.NewField(effects, edges), nil
}

func rollEffect(p Params, rng *rand.Rand) game.EffectKind {
	roll := rng.Float64()
	switch {
	case roll < p.TeleportWeight:
		return game.EffectTeleport
	case roll < p.TeleportWeight+p.HealWeight:
		return game.EffectHeal
	case roll < p.TeleportWeight+p.HealWeight+p.GambleWeight:
		return game.EffectGamble
	default:
		return game.EffectNone
	}
}
