// Package ai provides the decision engines driving automated seats. Engines
// are pure with respect to the table: they see only an Observation and return
// a Decision, never mutating game state.
package ai

import (
	"math/rand"

	"github.com/lox/liveholdem/internal/game"
)

// Engine chooses an action for an automated seat
type Engine interface {
	Decide(obs game.Observation) game.Decision
}

// Difficulty tunes how loose an engine plays
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// ParseDifficulty maps a wire keyword to a difficulty, defaulting to medium
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "easy":
		return Easy
	case "hard":
		return Hard
	default:
		return Medium
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// bluffChance is the probability of raising a hand the engine would
// otherwise surrender
func (d Difficulty) bluffChance() float64 {
	switch d {
	case Easy:
		return 0.05
	case Hard:
		return 0.20
	default:
		return 0.10
	}
}

// ForStrategy builds the engine for an automated seat. Unknown strategy
// keywords fall back to the Monte Carlo engine.
func ForStrategy(strategy, difficulty string, simulations int, rng *rand.Rand) Engine {
	d := ParseDifficulty(difficulty)
	switch strategy {
	case "heuristic":
		return NewHeuristic(d, rng)
	default:
		return NewMonteCarlo(simulations, d, rng)
	}
}

// surrender checks when possible and folds otherwise, optionally throwing in
// the occasional bluff raise so weak ranges stay unreadable.
func surrender(obs game.Observation, d Difficulty, rng *rand.Rand) game.Decision {
	if canAct(obs, game.Raise) && rng.Float64() < d.bluffChance() {
		return game.Decision{Action: game.Raise, Amount: clampRaise(obs, bluffRaise)}
	}
	if canAct(obs, game.Check) {
		return game.Decision{Action: game.Check}
	}
	return game.Decision{Action: game.Fold}
}

func canAct(obs game.Observation, a game.Action) bool {
	for _, legal := range obs.LegalActions {
		if legal == a {
			return true
		}
	}
	return false
}

// clampRaise fits a desired raise increment to the table: at least the
// minimum raise, at most the full remaining stack beyond the call.
func clampRaise(obs game.Observation, amount int) int {
	if amount < obs.MinRaise {
		amount = obs.MinRaise
	}
	if allIn := obs.Chips - obs.ToCall; amount > allIn {
		amount = allIn
	}
	return amount
}
