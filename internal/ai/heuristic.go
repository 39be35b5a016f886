package ai

import (
	"math/rand"

	"github.com/lox/liveholdem/internal/deck"
	"github.com/lox/liveholdem/internal/evaluator"
	"github.com/lox/liveholdem/internal/game"
)

// Heuristic is a cheap rule-based engine: preflop it scores hole cards by
// rank, pairing and suitedness; postflop it acts on the made-hand category.
// It never simulates, so it suits low-latency or low-difficulty seats.
type Heuristic struct {
	difficulty Difficulty
	rng        *rand.Rand
}

// NewHeuristic creates a rule-based engine
func NewHeuristic(difficulty Difficulty, rng *rand.Rand) *Heuristic {
	return &Heuristic{difficulty: difficulty, rng: rng}
}

func (h *Heuristic) Decide(obs game.Observation) game.Decision {
	if len(obs.Hole) != 2 || len(obs.LegalActions) == 0 {
		if canAct(obs, game.Check) {
			return game.Decision{Action: game.Check}
		}
		return game.Decision{Action: game.Fold}
	}

	var strong, playable bool
	if len(obs.Community) == 0 {
		strong, playable = preflopStrength(obs.Hole)
	} else {
		strong, playable = madeStrength(obs)
	}

	switch {
	case strong && canAct(obs, game.Raise):
		return game.Decision{Action: game.Raise, Amount: clampRaise(obs, raiseMenu[0])}
	case strong:
		if canAct(obs, game.Call) {
			return game.Decision{Action: game.Call}
		}
		return game.Decision{Action: game.Check}
	case playable:
		if obs.ToCall == 0 && canAct(obs, game.Check) {
			return game.Decision{Action: game.Check}
		}
		if canAct(obs, game.Call) && potOdds(obs) < playableCallOdds {
			return game.Decision{Action: game.Call}
		}
		return surrender(obs, h.difficulty, h.rng)
	default:
		if obs.ToCall == 0 && canAct(obs, game.Check) {
			return game.Decision{Action: game.Check}
		}
		if canAct(obs, game.Call) && potOdds(obs) < weakCallOdds {
			return game.Decision{Action: game.Call}
		}
		return surrender(obs, h.difficulty, h.rng)
	}
}

const (
	// Call price ceilings, as a share of the pot after calling
	playableCallOdds = 0.6
	weakCallOdds     = 0.2
)

// potOdds is the fraction of the post-call pot the caller puts in
func potOdds(obs game.Observation) float64 {
	if obs.ToCall <= 0 {
		return 0
	}
	return float64(obs.ToCall) / float64(obs.Pot+obs.ToCall)
}

// preflopStrength buckets a starting hand. Strong hands are big pairs and big
// suited aces; playable hands are any pair, two broadway cards, or a suited
// ace.
func preflopStrength(hole []deck.Card) (strong, playable bool) {
	a, b := hole[0], hole[1]
	hi, lo := a.Rank, b.Rank
	if lo > hi {
		hi, lo = lo, hi
	}
	pair := a.Rank == b.Rank
	suited := a.Suit == b.Suit

	strong = (pair && hi >= deck.Ten) || (hi == deck.Ace && lo >= deck.Queen) ||
		(suited && hi == deck.Ace && lo >= deck.Ten)
	playable = strong || pair || lo >= deck.Ten || (suited && hi == deck.Ace)
	return strong, playable
}

// madeStrength buckets the current made hand. Two pair or better raises;
// any pair or better continues.
func madeStrength(obs game.Observation) (strong, playable bool) {
	rank := evaluator.Evaluate(append(obs.Community[:len(obs.Community):len(obs.Community)], obs.Hole...))
	strong = rank.Category >= evaluator.TwoPair
	playable = rank.Category >= evaluator.Pair
	return strong, playable
}
