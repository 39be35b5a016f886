package ai

import (
	"math/rand"

	"github.com/lox/liveholdem/internal/deck"
	"github.com/lox/liveholdem/internal/evaluator"
	"github.com/lox/liveholdem/internal/game"
)

const (
	// DefaultSimulations bounds decision latency while keeping the win
	// estimate stable enough for band selection.
	DefaultSimulations = 200

	raiseBand = 0.70
	callBand  = 0.45

	potFraction = 0.40
	bluffRaise  = 30
)

var raiseMenu = [...]int{30, 70, 150}

// MonteCarlo estimates win probability by dealing random opponent hands and
// board run-outs, then maps the estimate onto raise, call and fold bands.
type MonteCarlo struct {
	simulations int
	difficulty  Difficulty
	rng         *rand.Rand
}

// NewMonteCarlo creates a Monte Carlo engine. The RNG is owned by the caller
// and must not be shared across goroutines.
func NewMonteCarlo(simulations int, difficulty Difficulty, rng *rand.Rand) *MonteCarlo {
	if simulations <= 0 {
		simulations = DefaultSimulations
	}
	return &MonteCarlo{simulations: simulations, difficulty: difficulty, rng: rng}
}

// Decide maps the estimated win probability onto an action. Any observation
// the engine cannot price (no hole cards, no legal actions) fails safe to a
// check or fold.
func (m *MonteCarlo) Decide(obs game.Observation) game.Decision {
	if len(obs.Hole) != 2 || len(obs.LegalActions) == 0 {
		if canAct(obs, game.Check) {
			return game.Decision{Action: game.Check}
		}
		return game.Decision{Action: game.Fold}
	}

	p := EstimateWin(obs.Hole, obs.Community, max(obs.Opponents, 1), m.simulations, m.rng)

	switch {
	case p >= raiseBand:
		if canAct(obs, game.Raise) {
			return game.Decision{Action: game.Raise, Amount: clampRaise(obs, m.raiseSize())}
		}
		if canAct(obs, game.Call) {
			return game.Decision{Action: game.Call}
		}
		return game.Decision{Action: game.Check}
	case p >= callBand:
		// A marginal hand only pays a call below a fraction of the pot
		if canAct(obs, game.Call) && float64(obs.ToCall) < float64(obs.Pot)*potFraction {
			return game.Decision{Action: game.Call}
		}
		if canAct(obs, game.Check) {
			return game.Decision{Action: game.Check}
		}
		return game.Decision{Action: game.Fold}
	default:
		if obs.ToCall == 0 && canAct(obs, game.Check) {
			return game.Decision{Action: game.Check}
		}
		return surrender(obs, m.difficulty, m.rng)
	}
}

// raiseSize draws a raise increment from the menu at random, so sizing never
// telegraphs the strength of the hand behind it.
func (m *MonteCarlo) raiseSize() int {
	return raiseMenu[m.rng.Intn(len(raiseMenu))]
}

// EstimateWin returns the probability that hole ties or beats the best of
// the given number of random opponent hands at showdown, over trials
// simulated run-outs.
func EstimateWin(hole, community []deck.Card, opponents, trials int, rng *rand.Rand) float64 {
	if trials <= 0 || opponents <= 0 {
		return 0
	}

	used := make([]deck.Card, 0, len(hole)+len(community))
	used = append(used, hole...)
	used = append(used, community...)
	remaining := deck.Without(used)

	need := opponents*2 + (5 - len(community))
	if need > len(remaining) {
		return 0
	}

	board := make([]deck.Card, 0, 5)
	wins := 0

	for t := 0; t < trials; t++ {
		// Partial Fisher-Yates: only the cards this trial consumes
		for i := 0; i < need; i++ {
			j := i + rng.Intn(len(remaining)-i)
			remaining[i], remaining[j] = remaining[j], remaining[i]
		}

		board = append(board[:0], community...)
		board = append(board, remaining[:5-len(community)]...)

		mine := evaluator.Evaluate(append(board, hole...))

		won := true
		for o := 0; o < opponents; o++ {
			theirs := remaining[5-len(community)+o*2 : 5-len(community)+o*2+2]
			if evaluator.Compare(mine, evaluator.Evaluate(append(board, theirs...))) < 0 {
				won = false
				break
			}
		}
		if won {
			wins++
		}
	}

	return float64(wins) / float64(trials)
}
