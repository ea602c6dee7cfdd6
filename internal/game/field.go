package game

import (
	"errors"
	"math/rand"
)

// NodeID indexes a node inside one field. Ids are dense, starting at 0.
type NodeID int

// Edge connects two nodes. An undirected edge is logically two directed
// edges and is expanded that way when the field is built.
type Edge struct {
	From     NodeID `json:"from"`
	To       NodeID `json:"to"`
	Directed bool   `json:"directed"`
}

// ErrNoEmptyNode is returned when a relocation needs an unoccupied node and
// the field cannot provide one. Callers recover by leaving the piece where
// it stands.
var ErrNoEmptyNode = errors.New("no empty node available")

// Field is the fixed playing graph for one match. Immutable once built; the
// match owns it exclusively for its lifetime.
type Field struct {
	effects []EffectKind
	out     [][]NodeID
}

// NewField builds a field from per-node effects and an edge list. Duplicate
// and self edges are kept as provided; generation decides what is legal.
func NewField(effects []EffectKind, edges []Edge) *Field {
	f := &Field{
		effects: append([]EffectKind(nil), effects...),
		out:     make([][]NodeID, len(effects)),
	}
	for _, e := range edges {
		f.out[e.From] = append(f.out[e.From], e.To)
		if !e.Directed {
			f.out[e.To] = append(f.out[e.To], e.From)
		}
	}
	return f
}

func (f *Field) NodeCount() int { return len(f.effects) }

// Effect returns the effect kind of a node.
func (f *Field) Effect(n NodeID) EffectKind { return f.effects[n] }

// OutgoingNodes returns the legal move targets from a node.
func (f *Field) OutgoingNodes(n NodeID) []NodeID {
	return append([]NodeID(nil), f.out[n]...)
}

// RandomEmptyNode picks a uniformly random node that is not blocked and is
// not a teleport node (teleporting onto a teleport node would chain).
func (f *Field) RandomEmptyNode(blocked []NodeID, rng *rand.Rand) (NodeID, error) {
	available := make([]NodeID, 0, len(f.effects))
	for i := range f.effects {
		n := NodeID(i)
		if f.effects[i] == EffectTeleport {
			continue
		}
		if containsNode(blocked, n) {
			continue
		}
		available = append(available, n)
	}
	if len(available) == 0 {
		return 0, ErrNoEmptyNode
	}
	return available[rng.Intn(len(available))], nil
}

// ShuffledMoves returns the move targets from a node that are not blocked,
// in random order.
func (f *Field) ShuffledMoves(from NodeID, blocked []NodeID, rng *rand.Rand) []NodeID {
	moves := make([]NodeID, 0, len(f.out[from]))
	for _, n := range f.out[from] {
		if !containsNode(blocked, n) {
			moves = append(moves, n)
		}
	}
	rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	return moves
}

func containsNode(nodes []NodeID, n NodeID) bool {
	for _, v := range nodes {
		if v == n {
			return true
		}
	}
	return false
}
