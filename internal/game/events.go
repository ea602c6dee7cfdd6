package game

// EventKind classifies what happened to a seat during a turn.
type EventKind string

const (
	EventMove       EventKind = "move"
	EventStuck      EventKind = "stuck"
	EventHeal       EventKind = "heal"
	EventGamble     EventKind = "gamble"
	EventTeleport   EventKind = "teleport"
	EventFight      EventKind = "fight"
	EventEnemyFight EventKind = "enemy_fight"
	EventFlee       EventKind = "flee"
	EventForfeit    EventKind = "forfeit"
)

// TurnEvent is one mechanical occurrence inside a turn, in resolution order.
type TurnEvent struct {
	Kind   EventKind `json:"kind"`
	Seat   Seat      `json:"seat"`
	Detail string    `json:"detail,omitempty"`
}

// TurnRecord captures one full turn: the moves both seats chose, every event
// that fired, and the resulting player states. Records are append-only; the
// driver produces exactly one per turn.
type TurnRecord struct {
	Turn    int            `json:"turn"`
	Moves   [2]NodeID      `json:"moves"`
	Events  []TurnEvent    `json:"events"`
	Players [2]PlayerState `json:"players"`
}

// Outcome is the completed result of one match: the final verdict, the seed
// that reproduces it, and the full turn history. The caller owns it and is
// responsible for persisting it; a failed write can simply be retried.
type Outcome struct {
	Result Result       `json:"result"`
	Seed   int64        `json:"seed"`
	Turns  []TurnRecord `json:"turns"`
}
