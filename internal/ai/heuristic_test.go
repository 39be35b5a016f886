package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/liveholdem/internal/deck"
	"github.com/lox/liveholdem/internal/game"
)

func heuristicDecision(hole, community string, legal []game.Action, toCall int) game.Decision {
	engine := NewHeuristic(Medium, rand.New(rand.NewSource(1)))
	return engine.Decide(game.Observation{
		Hole:         deck.MustParseCards(hole),
		Community:    deck.MustParseCards(community),
		Pot:          100,
		ToCall:       toCall,
		MinRaise:     1,
		Chips:        1000,
		LegalActions: legal,
		Opponents:    1,
	})
}

func TestHeuristicRaisesPremiumPairsPreflop(t *testing.T) {
	t.Parallel()

	legal := []game.Action{game.Fold, game.Check, game.Raise}
	assert.Equal(t, game.Raise, heuristicDecision("As Ad", "", legal, 0).Action)
	assert.Equal(t, game.Raise, heuristicDecision("Ts Td", "", legal, 0).Action)
	assert.Equal(t, game.Raise, heuristicDecision("Ah Qd", "", legal, 0).Action)
}

func TestHeuristicCallsPlayableHandsPreflop(t *testing.T) {
	t.Parallel()

	legal := []game.Action{game.Fold, game.Call, game.Raise}
	assert.Equal(t, game.Call, heuristicDecision("2s 2d", "", legal, 10).Action)
	assert.Equal(t, game.Call, heuristicDecision("Kh Jd", "", legal, 10).Action)
}

func TestHeuristicFoldsTrashFacingBet(t *testing.T) {
	t.Parallel()

	legal := []game.Action{game.Fold, game.Call}
	assert.Equal(t, game.Fold, heuristicDecision("7c 2d", "", legal, 50).Action)
}

func TestHeuristicPricesCallsByPotOdds(t *testing.T) {
	t.Parallel()

	legal := []game.Action{game.Fold, game.Call}

	// A playable hand lets go when the price swamps the pot
	assert.Equal(t, game.Fold, heuristicDecision("Kh Jd", "", legal, 400).Action)

	// A weak hand still peels for a tiny fraction of the pot
	assert.Equal(t, game.Call, heuristicDecision("7c 2d", "", legal, 10).Action)
}

func TestHeuristicRaisesTwoPairOrBetter(t *testing.T) {
	t.Parallel()

	legal := []game.Action{game.Fold, game.Check, game.Raise}
	d := heuristicDecision("As Kd", "Ah Kh 7c", legal, 0)
	assert.Equal(t, game.Raise, d.Action)
}

func TestHeuristicChecksMarginalHandForFree(t *testing.T) {
	t.Parallel()

	legal := []game.Action{game.Fold, game.Check, game.Raise}
	d := heuristicDecision("7c 2d", "Ah Kh 9c", legal, 0)
	assert.Equal(t, game.Check, d.Action)
}

func TestForStrategySelectsEngine(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	assert.IsType(t, &Heuristic{}, ForStrategy("heuristic", "easy", 0, rng))
	assert.IsType(t, &MonteCarlo{}, ForStrategy("montecarlo", "hard", 0, rng))
	assert.IsType(t, &MonteCarlo{}, ForStrategy("", "", 0, rng))
}
