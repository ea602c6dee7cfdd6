package engine

import (
	"fmt"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

// ApplyHeal raises health by one, capped at the maximum. Healing at full
// health is a no-op.
func ApplyHeal(p *game.PlayerState) {
	if p.Health < game.MaxHealth {
		p.Health++
	}
}

// ApplyDamage lowers health by one, floored at zero.
func ApplyDamage(p *game.PlayerState) {
	if p.Health > 0 {
		p.Health--
	}
}

// ApplyGamble mutates the chosen resource from one uniform roll in [0, 1):
// halve below 0.1, double below 0.2, +1 below 0.6, otherwise -1. Values are
// floored at zero and health is re-capped at the maximum. A skip changes
// nothing. The returned summary describes what happened.
func ApplyGamble(p *game.PlayerState, choice game.GambleChoice, roll float64) string {
	if choice == game.GambleSkip {
		return "skipped"
	}

	value := &p.Power
	if choice == game.GambleHealth {
		value = &p.Health
	}
	old := *value

	switch {
	case roll < 0.1:
		*value /= 2
	case roll < 0.2:
		*value *= 2
	case roll < 0.6:
		*value++
	default:
		if *value > 0 {
			*value--
		}
	}

	if choice == game.GambleHealth && p.Health > game.MaxHealth {
		p.Health = game.MaxHealth
	}
	return fmt.Sprintf("%s %d -> %d", choice, old, *value)
}
