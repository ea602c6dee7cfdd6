package mapgen

import (
	"math/rand"
	"testing"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

func TestGenerate_NodeCountInRange(t *testing.T) {
	p := DefaultParams()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		f, err := Generate(p, rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n := f.NodeCount()
		if n < p.MinNodeCount || n > p.MaxNodeCount {
			t.Fatalf("node count %d outside [%d, %d]", n, p.MinNodeCount, p.MaxNodeCount)
		}
	}
}

func TestGenerate_EveryNodeHasAMove(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 50; i++ {
		f, err := Generate(DefaultParams(), rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for n := 0; n < f.NodeCount(); n++ {
			if len(f.OutgoingNodes(game.NodeID(n))) == 0 {
				t.Fatalf("node %d has no outgoing edges", n)
			}
		}
	}
}

func TestGenerate_StronglyConnected(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	for i := 0; i < 50; i++ {
		f, err := Generate(DefaultParams(), rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for start := 0; start < f.NodeCount(); start++ {
			if got := reachableFrom(f, game.NodeID(start)); got != f.NodeCount() {
				t.Fatalf("only %d of %d nodes reachable from node %d", got, f.NodeCount(), start)
			}
		}
	}
}

func reachableFrom(f *game.Field, start game.NodeID) int {
	visited := make(map[game.NodeID]bool)
	queue := []game.NodeID{start}
	visited[start] = true
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range f.OutgoingNodes(n) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(visited)
}

func TestGenerate_Deterministic(t *testing.T) {
	p := DefaultParams()

	a, err := Generate(p, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(p, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.NodeCount() != b.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", a.NodeCount(), b.NodeCount())
	}
	for n := 0; n < a.NodeCount(); n++ {
		id := game.NodeID(n)
		if a.Effect(id) != b.Effect(id) {
			t.Fatalf("effects differ at node %d: %v vs %v", n, a.Effect(id), b.Effect(id))
		}
		ao, bo := a.OutgoingNodes(id), b.OutgoingNodes(id)
		if len(ao) != len(bo) {
			t.Fatalf("edge counts differ at node %d: %v vs %v", n, ao, bo)
		}
		for i := range ao {
			if ao[i] != bo[i] {
				t.Fatalf("edges differ at node %d: %v vs %v", n, ao, bo)
			}
		}
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Params)
	}{
		{"too few nodes", func(p *Params) { p.MinNodeCount = 2 }},
		{"max below min", func(p *Params) { p.MaxNodeCount = p.MinNodeCount - 1 }},
		{"negative density", func(p *Params) { p.ExtraEdgeDensity = -0.1 }},
		{"negative weight", func(p *Params) { p.HealWeight = -0.5 }},
		{"weights above one", func(p *Params) { p.HealWeight = 0.9; p.GambleWeight = 0.9 }},
	}
	for _, tc := range cases {
		p := DefaultParams()
		tc.edit(&p)
		if err := p.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestGenerate_EffectWeightsRoughlyRespected(t *testing.T) {
	p := DefaultParams()
	p.MinNodeCount = 200
	p.MaxNodeCount = 200
	rng := rand.New(rand.NewSource(5))

	counts := make(map[game.EffectKind]int)
	const fields = 100
	for i := 0; i < fields; i++ {
		f, err := Generate(p, rng)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for n := 0; n < f.NodeCount(); n++ {
			counts[f.Effect(game.NodeID(n))]++
		}
	}

	total := float64(fields * 200)
	checks := []struct {
		kind game.EffectKind
		want float64
	}{
		{game.EffectHeal, p.HealWeight},
		{game.EffectGamble, p.GambleWeight},
		{game.EffectTeleport, p.TeleportWeight},
	}
	for _, c := range checks {
		got := float64(counts[c.kind]) / total
		if got < c.want-0.02 || got > c.want+0.02 {
			t.Fatalf("effect %v frequency %.3f, want about %.3f", c.kind, got, c.want)
		}
	}
}
