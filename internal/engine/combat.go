// Package engine holds the pure game-rule resolvers. Nothing here performs
// I/O or owns randomness: callers pass explicit samples drawn from the
// match's own rng so every outcome is reproducible.
package engine

// WinProbability returns the chance that the attacker wins a fight given the
// two power values. Two powerless combatants resolve as a coin flip.
func WinProbability(attackerPower, defenderPower int) float64 {
	total := attackerPower + defenderPower
	if total == 0 {
		return 0.5
	}
	return float64(attackerPower) / float64(total)
}

// ResolveFight decides a fight from the two powers and one uniform sample in
// [0, 1). It reports whether the attacker won.
func ResolveFight(attackerPower, defenderPower int, sample float64) bool {
	return sample < WinProbability(attackerPower, defenderPower)
}

// VictorPowerGain is the power awarded to a fight's winner: half the loser's
// power, rounded down.
func VictorPowerGain(loserPower int) int {
	return loserPower / 2
}
