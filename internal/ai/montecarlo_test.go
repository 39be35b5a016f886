package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/liveholdem/internal/deck"
	"github.com/lox/liveholdem/internal/game"
)

func TestEstimateWinUnbeatableHand(t *testing.T) {
	t.Parallel()

	// Royal flush using both hole cards cannot be beaten or tied
	p := EstimateWin(
		deck.MustParseCards("As Ks"),
		deck.MustParseCards("Qs Js Ts"),
		2, 100, rand.New(rand.NewSource(1)),
	)
	assert.Equal(t, 1.0, p)
}

func TestEstimateWinCountsTiesAsWins(t *testing.T) {
	t.Parallel()

	// The board is a royal flush, so every showdown is an exact tie
	p := EstimateWin(
		deck.MustParseCards("2c 7d"),
		deck.MustParseCards("Ah Kh Qh Jh Th"),
		3, 100, rand.New(rand.NewSource(1)),
	)
	assert.Equal(t, 1.0, p, "tying the best opponent is a win")
}

func TestEstimateWinOrdersHandStrength(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	aces := EstimateWin(deck.MustParseCards("As Ad"), nil, 1, 400, rng)
	trash := EstimateWin(deck.MustParseCards("7c 2d"), nil, 1, 400, rng)

	assert.Greater(t, aces, 0.7, "pocket aces dominate a single random hand")
	assert.Less(t, trash, 0.45)
	assert.Greater(t, aces, trash)
}

func TestEstimateWinMoreOpponentsLowersEquity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	headsUp := EstimateWin(deck.MustParseCards("Ts 9s"), nil, 1, 400, rng)
	fiveWay := EstimateWin(deck.MustParseCards("Ts 9s"), nil, 5, 400, rng)

	assert.Greater(t, headsUp, fiveWay)
}

func TestEstimateWinDegenerateInputs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	assert.Zero(t, EstimateWin(deck.MustParseCards("As Ad"), nil, 1, 0, rng))
	assert.Zero(t, EstimateWin(deck.MustParseCards("As Ad"), nil, 0, 100, rng))
}

func TestDecideRaisesUnbeatableHand(t *testing.T) {
	t.Parallel()

	engine := NewMonteCarlo(100, Medium, rand.New(rand.NewSource(1)))
	d := engine.Decide(game.Observation{
		Hole:         deck.MustParseCards("As Ks"),
		Community:    deck.MustParseCards("Qs Js Ts"),
		Stage:        game.Flop,
		Pot:          200,
		MinRaise:     1,
		Chips:        1000,
		LegalActions: []game.Action{game.Fold, game.Check, game.Raise},
		Opponents:    1,
	})

	assert.Equal(t, game.Raise, d.Action)
	assert.GreaterOrEqual(t, d.Amount, 1)
	assert.LessOrEqual(t, d.Amount, 1000)
}

func TestDecideMidBandPricesTheCall(t *testing.T) {
	t.Parallel()

	obs := game.Observation{
		Hole:         deck.MustParseCards("Ah 7d"),
		MinRaise:     1,
		Chips:        1000,
		LegalActions: []game.Action{game.Fold, game.Call},
		Opponents:    1,
	}

	// A marginal hand folds rather than pay far over the pot fraction
	obs.Pot, obs.ToCall = 10, 100
	d := NewMonteCarlo(400, Medium, rand.New(rand.NewSource(1))).Decide(obs)
	assert.Equal(t, game.Fold, d.Action)

	// The same hand calls when the price is small against the pot
	obs.Pot, obs.ToCall = 400, 50
	d = NewMonteCarlo(400, Medium, rand.New(rand.NewSource(1))).Decide(obs)
	assert.Equal(t, game.Call, d.Action)
}

func TestDecideRaiseSizeDrawsFromMenu(t *testing.T) {
	t.Parallel()

	obs := game.Observation{
		Hole:         deck.MustParseCards("As Ks"),
		Community:    deck.MustParseCards("Qs Js Ts"),
		Stage:        game.Flop,
		Pot:          200,
		MinRaise:     1,
		Chips:        1000,
		LegalActions: []game.Action{game.Fold, game.Check, game.Raise},
		Opponents:    1,
	}

	sizes := make(map[int]bool)
	for seed := int64(1); seed <= 20; seed++ {
		d := NewMonteCarlo(100, Medium, rand.New(rand.NewSource(seed))).Decide(obs)
		require.Equal(t, game.Raise, d.Action)
		assert.Contains(t, raiseMenu[:], d.Amount)
		sizes[d.Amount] = true
	}
	assert.Greater(t, len(sizes), 1, "sizing varies between decisions")
}

func TestDecideFoldsTrashFacingBetWhenRaiseUnavailable(t *testing.T) {
	t.Parallel()

	// Raise is not on offer, so the weak range cannot bluff and must fold
	engine := NewMonteCarlo(100, Easy, rand.New(rand.NewSource(1)))
	d := engine.Decide(game.Observation{
		Hole:         deck.MustParseCards("7c 2d"),
		Community:    deck.MustParseCards("As Kd Qh"),
		Stage:        game.Flop,
		Pot:          500,
		CurrentBet:   400,
		ToCall:       400,
		MinRaise:     400,
		Chips:        400,
		LegalActions: []game.Action{game.Fold, game.Call},
		Opponents:    2,
	})

	assert.Equal(t, game.Fold, d.Action)
}

func TestDecideChecksWeakHandForFree(t *testing.T) {
	t.Parallel()

	engine := NewMonteCarlo(100, Medium, rand.New(rand.NewSource(1)))
	d := engine.Decide(game.Observation{
		Hole:         deck.MustParseCards("7c 2d"),
		Community:    deck.MustParseCards("As Kd Qh"),
		Stage:        game.Flop,
		MinRaise:     1,
		Chips:        1000,
		LegalActions: []game.Action{game.Fold, game.Check, game.Raise},
		Opponents:    3,
	})

	assert.Equal(t, game.Check, d.Action, "never fold when checking is free")
}

func TestDecideFailsSafeWithoutHoleCards(t *testing.T) {
	t.Parallel()

	engine := NewMonteCarlo(100, Medium, rand.New(rand.NewSource(1)))

	d := engine.Decide(game.Observation{
		LegalActions: []game.Action{game.Fold, game.Check},
	})
	assert.Equal(t, game.Check, d.Action)

	d = engine.Decide(game.Observation{
		LegalActions: []game.Action{game.Fold, game.Call},
	})
	assert.Equal(t, game.Fold, d.Action)

	d = engine.Decide(game.Observation{})
	assert.Equal(t, game.Fold, d.Action)
}

func TestEstimateWinVarianceShrinksWithTrials(t *testing.T) {
	t.Parallel()

	spread := func(trials int) float64 {
		lo, hi := 1.0, 0.0
		for seed := int64(1); seed <= 10; seed++ {
			p := EstimateWin(deck.MustParseCards("Ah Kh"), nil, 1, trials, rand.New(rand.NewSource(seed)))
			lo = min(lo, p)
			hi = max(hi, p)
		}
		return hi - lo
	}

	// std.err. ~ sqrt(p(1-p)/N): forty times the trials shrinks the spread
	assert.Less(t, spread(2000), spread(50))
}

func TestClampRaiseBounds(t *testing.T) {
	t.Parallel()

	obs := game.Observation{MinRaise: 50, Chips: 120, ToCall: 40}
	assert.Equal(t, 50, clampRaise(obs, 30), "raises round up to the minimum")
	assert.Equal(t, 80, clampRaise(obs, 150), "raises cap at all-in")
	assert.Equal(t, 60, clampRaise(obs, 60))
}
