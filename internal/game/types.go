package game

// EffectKind is the mechanical effect a node applies on arrival.
// Using a dedicated type instead of plain string makes code safer and self-documenting.
type EffectKind string

const (
	EffectNone     EffectKind = "none"
	EffectHeal     EffectKind = "heal"
	EffectGamble   EffectKind = "gamble"
	EffectTeleport EffectKind = "teleport"
)

// GambleChoice is an agent's answer to a gamble prompt: which resource to
// stake, or skip the opportunity entirely.
type GambleChoice string

const (
	GamblePower  GambleChoice = "Power"
	GambleHealth GambleChoice = "Health"
	GambleSkip   GambleChoice = "Skip"
)

// Valid reports whether the value is one of the protocol's gamble answers.
func (c GambleChoice) Valid() bool {
	return c == GamblePower || c == GambleHealth || c == GambleSkip
}

// FightChoice is an agent's answer to an optional fight prompt.
type FightChoice string

const (
	ChoiceFight FightChoice = "Fight"
	ChoiceFlee  FightChoice = "Flee"
)

// Valid reports whether the value is one of the protocol's fight answers.
func (c FightChoice) Valid() bool {
	return c == ChoiceFight || c == ChoiceFlee
}

// Seat identifies one of the two player slots in a match.
type Seat int

const (
	SeatA Seat = 0
	SeatB Seat = 1
)

func (s Seat) Opponent() Seat {
	if s == SeatA {
		return SeatB
	}
	return SeatA
}

func (s Seat) String() string {
	if s == SeatA {
		return "A"
	}
	return "B"
}

// Result is a concluded match outcome. ResultPending is only used as the
// persisted placeholder before a game finishes.
type Result string

const (
	ResultPending    Result = "pending"
	ResultPlayerAWin Result = "player_a"
	ResultPlayerBWin Result = "player_b"
	ResultTie        Result = "tie"
)

// WinnerOf maps a seat to the corresponding win result.
func WinnerOf(s Seat) Result {
	if s == SeatA {
		return ResultPlayerAWin
	}
	return ResultPlayerBWin
}

const (
	MaxHealth      = 3
	StartingHealth = 3
	StartingPower  = 5

	// Roaming enemies spawn with 1 health and a power rolled in
	// [EnemyMinPower, EnemyMaxPower].
	EnemyHealth   = 1
	EnemyMinPower = 2
	EnemyMaxPower = 7
)

// PlayerState is one seat's mutable in-match state. Health stays within
// [0, MaxHealth]; Power never drops below zero.
type PlayerState struct {
	Health int    `json:"health"`
	Power  int    `json:"power"`
	Node   NodeID `json:"node"`
}

// NewPlayerState returns the starting state for a seat placed on start.
func NewPlayerState(start NodeID) PlayerState {
	return PlayerState{Health: StartingHealth, Power: StartingPower, Node: start}
}

// Alive reports whether the player can still act.
func (p PlayerState) Alive() bool { return p.Health > 0 }

// EnemyState is a roaming non-player occupant. Enemies take one random step
// per turn and are respawned with fresh stats when defeated.
type EnemyState struct {
	Health int    `json:"health"`
	Power  int    `json:"power"`
	Node   NodeID `json:"node"`
}
