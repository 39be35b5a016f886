package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/liveholdem/internal/game"
	"github.com/lox/liveholdem/internal/session"
)

// Config is the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
	AI     AISettings     `hcl:"ai,block"`
}

// ServerSettings contains listener-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains table policy configuration
type GameSettings struct {
	Seats        int   `hcl:"seats,optional"`
	StartChips   int   `hcl:"start_chips,optional"`
	SmallBlind   int   `hcl:"small_blind,optional"`
	BigBlind     int   `hcl:"big_blind,optional"`
	MinPlayers   int   `hcl:"min_players,optional"`
	LobbySeconds int   `hcl:"lobby_seconds,optional"`
	Seed         int64 `hcl:"seed,optional"`
}

// AISettings tunes the automated-player decision pipeline
type AISettings struct {
	Simulations       int `hcl:"simulations,optional"`
	Workers           int `hcl:"workers,optional"`
	ThinkTimeMinMs    int `hcl:"think_time_min_ms,optional"`
	ThinkTimeMaxMs    int `hcl:"think_time_max_ms,optional"`
	DecisionTimeoutMs int `hcl:"decision_timeout_ms,optional"`
	MaxChainedTurns   int `hcl:"max_chained_turns,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	sc := session.DefaultConfig()
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			Seats:        sc.Table.SeatCount,
			StartChips:   sc.Table.StartChips,
			SmallBlind:   sc.Table.SmallBlind,
			BigBlind:     sc.Table.BigBlind,
			MinPlayers:   sc.Table.MinPlayers,
			LobbySeconds: sc.LobbySeconds,
		},
		AI: AISettings{
			Simulations:       sc.Simulations,
			Workers:           int(sc.Workers),
			ThinkTimeMinMs:    int(sc.ThinkTimeMin / time.Millisecond),
			ThinkTimeMaxMs:    int(sc.ThinkTimeMax / time.Millisecond),
			DecisionTimeoutMs: int(sc.DecisionTimeout / time.Millisecond),
			MaxChainedTurns:   sc.MaxAutomatedTurns,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist. Missing values take their defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.Seats == 0 {
		config.Game.Seats = defaults.Game.Seats
	}
	if config.Game.StartChips == 0 {
		config.Game.StartChips = defaults.Game.StartChips
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = defaults.Game.MinPlayers
	}
	if config.Game.LobbySeconds == 0 {
		config.Game.LobbySeconds = defaults.Game.LobbySeconds
	}
	if config.AI.Simulations == 0 {
		config.AI.Simulations = defaults.AI.Simulations
	}
	if config.AI.Workers == 0 {
		config.AI.Workers = defaults.AI.Workers
	}
	if config.AI.ThinkTimeMinMs == 0 {
		config.AI.ThinkTimeMinMs = defaults.AI.ThinkTimeMinMs
	}
	if config.AI.ThinkTimeMaxMs == 0 {
		config.AI.ThinkTimeMaxMs = defaults.AI.ThinkTimeMaxMs
	}
	if config.AI.DecisionTimeoutMs == 0 {
		config.AI.DecisionTimeoutMs = defaults.AI.DecisionTimeoutMs
	}
	if config.AI.MaxChainedTurns == 0 {
		config.AI.MaxChainedTurns = defaults.AI.MaxChainedTurns
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.Seats < 2 || c.Game.Seats > 10 {
		return fmt.Errorf("seats must be between 2 and 10, got %d", c.Game.Seats)
	}
	if c.Game.StartChips <= 0 {
		return fmt.Errorf("start chips must be positive, got %d", c.Game.StartChips)
	}
	if c.Game.MinPlayers < 2 || c.Game.MinPlayers > c.Game.Seats {
		return fmt.Errorf("min players must be between 2 and the seat count, got %d", c.Game.MinPlayers)
	}
	if c.Game.BigBlind > 0 && c.Game.SmallBlind >= c.Game.BigBlind {
		return fmt.Errorf("small blind must be below the big blind")
	}
	if c.AI.Simulations <= 0 {
		return fmt.Errorf("simulations must be positive, got %d", c.AI.Simulations)
	}
	if c.AI.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.AI.Workers)
	}
	if c.AI.ThinkTimeMinMs > c.AI.ThinkTimeMaxMs {
		return fmt.Errorf("think time minimum exceeds maximum")
	}
	return nil
}

// ListenAddress returns the address:port the server binds to
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionConfig converts the file configuration into session settings
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Table: game.Config{
			SeatCount:  c.Game.Seats,
			StartChips: c.Game.StartChips,
			SmallBlind: c.Game.SmallBlind,
			BigBlind:   c.Game.BigBlind,
			MinPlayers: c.Game.MinPlayers,
		},
		LobbySeconds:        c.Game.LobbySeconds,
		StartingSoonSeconds: session.DefaultConfig().StartingSoonSeconds,
		Simulations:         c.AI.Simulations,
		Workers:             int64(c.AI.Workers),
		MaxAutomatedTurns:   c.AI.MaxChainedTurns,
		ThinkTimeMin:        time.Duration(c.AI.ThinkTimeMinMs) * time.Millisecond,
		ThinkTimeMax:        time.Duration(c.AI.ThinkTimeMaxMs) * time.Millisecond,
		DecisionTimeout:     time.Duration(c.AI.DecisionTimeoutMs) * time.Millisecond,
		Seed:                c.Game.Seed,
	}
}
