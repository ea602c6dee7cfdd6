package constants

// Centralized constants for env keys, protocol routes and logging fields.
const (
	// Environment variable keys
	EnvConfigPath = "RPLCS_CONFIG"
	EnvDBPath     = "RPLCS_DB"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	// Decision protocol routes served by every agent process
	RouteLiveness = "/"
	RouteChoices  = "/choices"
	RouteGamble   = "/gamble"
	RouteFight    = "/fight"

	// Query parameter carrying the game id on every protocol request
	QueryGameID = "game_id"
)

// Logging field names
const (
	LogFieldGameID  = "game_id"
	LogFieldMatchup = "matchup"
	LogFieldAgent   = "agent"
	LogFieldTurn    = "turn"
	LogFieldSeed    = "seed"
	LogFieldAddr    = "addr"
	LogFieldWinner  = "winner"
)
