package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/mapgen"
)

// AgentEntry names one participating agent and where its decision server
// listens.
type AgentEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type rawConfig struct {
	Agents             []AgentEntry `json:"agents"`
	RoundsPerPair      int          `json:"rounds_per_pair"`
	TurnsPerGame       int          `json:"turns_per_game"`
	CallTimeoutSecs    float64      `json:"call_timeout_seconds"`
	GameTimeoutSecs    float64      `json:"game_timeout_seconds"`
	MaxConcurrentGames int          `json:"max_concurrent_games"`
	DatabasePath       string       `json:"database_path"`
	Enemies            *int         `json:"enemies"`
	// Pointer fields so an explicit zero (e.g. no teleports) is
	// distinguishable from an omitted key.
	Map *struct {
		MinNodes         *int     `json:"min_nodes"`
		MaxNodes         *int     `json:"max_nodes"`
		ExtraEdgeDensity *float64 `json:"extra_edge_density"`
		HealWeight       *float64 `json:"heal_weight"`
		GambleWeight     *float64 `json:"gamble_weight"`
		TeleportWeight   *float64 `json:"teleport_weight"`
	} `json:"map"`
}

// Config is the loaded tournament configuration.
type Config struct {
	Agents             []AgentEntry
	RoundsPerPair      int
	TurnsPerGame       int
	CallTimeout        time.Duration
	GameTimeout        time.Duration
	MaxConcurrentGames int
	DatabasePath       string
	Enemies            int
	Map                mapgen.Params
}

// LoadConfig reads the configuration file at path. Every omitted field gets
// the long-standing tournament default; the agent list is required and must
// hold at least two uniquely named entries.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.Agents) < 2 {
		return nil, fmt.Errorf("config file %s: need at least 2 agents, got %d", path, len(rc.Agents))
	}
	nameSet := make(map[string]struct{}, len(rc.Agents))
	for _, a := range rc.Agents {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("config file %s: agent entry missing 'name'", path)
		}
		if strings.TrimSpace(a.URL) == "" {
			return nil, fmt.Errorf("config file %s: agent %q missing 'url'", path, name)
		}
		ln := strings.ToLower(name)
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate agent name %q", path, name)
		}
		nameSet[ln] = struct{}{}
	}

	cfg := &Config{
		Agents:             rc.Agents,
		RoundsPerPair:      50,
		TurnsPerGame:       100,
		CallTimeout:        time.Second,
		GameTimeout:        30 * time.Second,
		MaxConcurrentGames: 8,
		DatabasePath:       "./results/results.sqlite",
		Enemies:            2,
		Map:                mapgen.DefaultParams(),
	}
	if rc.RoundsPerPair > 0 {
		cfg.RoundsPerPair = rc.RoundsPerPair
	}
	if rc.TurnsPerGame > 0 {
		cfg.TurnsPerGame = rc.TurnsPerGame
	}
	if rc.CallTimeoutSecs > 0 {
		cfg.CallTimeout = time.Duration(rc.CallTimeoutSecs * float64(time.Second))
	}
	if rc.GameTimeoutSecs > 0 {
		cfg.GameTimeout = time.Duration(rc.GameTimeoutSecs * float64(time.Second))
	}
	if rc.MaxConcurrentGames > 0 {
		cfg.MaxConcurrentGames = rc.MaxConcurrentGames
	}
	if rc.DatabasePath != "" {
		cfg.DatabasePath = rc.DatabasePath
	}
	if rc.Enemies != nil {
		if *rc.Enemies < 0 {
			return nil, fmt.Errorf("config file %s: enemies must not be negative", path)
		}
		cfg.Enemies = *rc.Enemies
	}
	if rc.Map != nil {
		if rc.Map.MinNodes != nil {
			cfg.Map.MinNodeCount = *rc.Map.MinNodes
		}
		if rc.Map.MaxNodes != nil {
			cfg.Map.MaxNodeCount = *rc.Map.MaxNodes
		}
		if rc.Map.ExtraEdgeDensity != nil {
			cfg.Map.ExtraEdgeDensity = *rc.Map.ExtraEdgeDensity
		}
		if rc.Map.HealWeight != nil {
			cfg.Map.HealWeight = *rc.Map.HealWeight
		}
		if rc.Map.GambleWeight != nil {
			cfg.Map.GambleWeight = *rc.Map.GambleWeight
		}
		if rc.Map.TeleportWeight != nil {
			cfg.Map.TeleportWeight = *rc.Map.TeleportWeight
		}
	}
	if err := cfg.Map.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: invalid map parameters: %w", path, err)
	}
	return cfg, nil
}
