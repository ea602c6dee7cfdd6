package keys

import "strings"

// MatchupOrder returns the canonical seat order for a pair of agent names.
// Names are compared case-insensitively so the same pair always maps to the
// same (player_a, player_b) row regardless of scheduling order.
func MatchupOrder(a, b string) (string, string) {
	if strings.ToLower(a) <= strings.ToLower(b) {
		return a, b
	}
	return b, a
}

// MatchupKey produces a stable key for a pair of agent names. Suitable for
// deduplicating concurrent row creation for the same matchup.
func MatchupKey(a, b string) string {
	first, second := MatchupOrder(a, b)
	return strings.ToLower(first) + "__" + strings.ToLower(second)
}
