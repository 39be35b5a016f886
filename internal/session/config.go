package session

import (
	"time"

	"github.com/lox/liveholdem/internal/game"
)

// Config tunes session behaviour: table policy, lobby countdown, and the
// automated-player decision pipeline.
type Config struct {
	Table game.Config

	// LobbySeconds is the full lobby countdown once enough players are
	// seated. StartingSoonSeconds is the tail of the countdown during which
	// the start is locked in and advertised to viewers.
	LobbySeconds        int
	StartingSoonSeconds int

	// Decision pipeline for automated seats
	Simulations       int
	Workers           int64         // concurrent decision computations across all sessions
	MaxAutomatedTurns int           // bound on chained automated actions per request
	ThinkTimeMin      time.Duration // artificial pacing before an automated action lands
	ThinkTimeMax      time.Duration
	DecisionTimeout   time.Duration // past this an automated seat surrenders its turn

	// Seed fixes every random stream for reproducible sessions; zero seeds
	// from the wall clock.
	Seed int64
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		Table:               game.DefaultConfig(),
		LobbySeconds:        15,
		StartingSoonSeconds: 5,
		Simulations:         200,
		Workers:             2,
		MaxAutomatedTurns:   20,
		ThinkTimeMin:        time.Second,
		ThinkTimeMax:        2 * time.Second,
		DecisionTimeout:     5 * time.Second,
	}
}
