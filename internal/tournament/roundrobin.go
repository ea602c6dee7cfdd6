package tournament

import "github.com/rust-community-discord/rplcs-events-tournament-1/internal/config"

// Pairs generates every unordered pairing of the configured agents, in a
// stable order. Each pair plays one matchup of repeated games.
func Pairs(agents []config.AgentEntry) [][2]config.AgentEntry {
	pairs := make([][2]config.AgentEntry, 0, len(agents)*(len(agents)-1)/2)
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			pairs = append(pairs, [2]config.AgentEntry{agents[i], agents[j]})
		}
	}
	return pairs
}
