// Package agent talks to the external decision processes. Agents are
// untrusted, independently implemented HTTP servers; every answer is
// validated for shape and bounds before the engine applies it.
package agent

import (
	"context"
	"fmt"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
)

// MoveChoices is the body of a /choices request: the destination nodes
// currently reachable, by effect kind, positionally indexed.
type MoveChoices struct {
	Choices []game.EffectKind `json:"choices"`
}

// ChoiceResponse is an agent's answer to /choices: an index into the
// presented set.
type ChoiceResponse struct {
	ChoiceIndex int `json:"choice_index"`
}

// EnemyStats is the body of a /fight request: the opposing entity's
// relevant stats.
type EnemyStats struct {
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Power     int `json:"power"`
}

// Agent is the capability interface one seat's decision-maker exposes to
// the match driver. Every call is bounded by its context; implementations
// must validate answers and return *ProtocolError for any violation.
type Agent interface {
	Name() string
	// RequestMove returns the chosen index into choices. The index is
	// guaranteed to be within bounds on success.
	RequestMove(ctx context.Context, gameID string, choices MoveChoices) (int, error)
	RequestGamble(ctx context.Context, gameID string) (game.GambleChoice, error)
	RequestFight(ctx context.Context, gameID string, enemy EnemyStats) (game.FightChoice, error)
}

// ProtocolError reports a violation of the decision protocol: a timeout, a
// non-success status, a malformed payload or an out-of-range answer. The
// driver treats any of these as an immediate forfeit by the offending
// agent, never as a fatal engine condition.
type ProtocolError struct {
	Agent    string
	Endpoint string
	Reason   string
	Err      error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent %s: %s: %s: %v", e.Agent, e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("agent %s: %s: %s", e.Agent, e.Endpoint, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
