package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRoundTrip(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"As", "Td", "2c", "9h", "Kd", "Qs", "Jc"} {
		card, err := ParseCard(code)
		require.NoError(t, err)
		assert.Equal(t, code, card.String())
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "A", "Asd", "1s", "Ax", "xs"} {
		_, err := ParseCard(code)
		assert.Error(t, err, code)
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("As Kd 7h")
	require.NoError(t, err)
	assert.Equal(t, []string{"As", "Kd", "7h"}, Strings(cards))

	cards, err = ParseCards("")
	require.NoError(t, err)
	assert.Empty(t, cards)

	_, err = ParseCards("As Xx")
	assert.Error(t, err)
}

func TestDeckDealsFiftyTwoDistinctCards(t *testing.T) {
	t.Parallel()

	d := New(rand.New(rand.NewSource(42)))
	seen := make(map[Card]bool)

	for i := 0; i < 52; i++ {
		card, ok := d.Draw()
		require.True(t, ok)
		assert.False(t, seen[card], "duplicate %s", card)
		seen[card] = true
	}

	_, ok := d.Draw()
	assert.False(t, ok, "a deck holds exactly 52 cards")
	assert.Zero(t, d.Remaining())
}

func TestDrawN(t *testing.T) {
	t.Parallel()

	d := New(rand.New(rand.NewSource(42)))
	cards, ok := d.DrawN(5)
	require.True(t, ok)
	assert.Len(t, cards, 5)
	assert.Equal(t, 47, d.Remaining())

	_, ok = d.DrawN(48)
	assert.False(t, ok, "overdraw leaves nothing dealt")
	assert.Equal(t, 47, d.Remaining())
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	t.Parallel()

	a := New(rand.New(rand.NewSource(7)))
	b := New(rand.New(rand.NewSource(7)))
	c := New(rand.New(rand.NewSource(8)))

	first, _ := a.DrawN(52)
	second, _ := b.DrawN(52)
	third, _ := c.DrawN(52)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, third)
}

func TestWithoutExcludesUsedCards(t *testing.T) {
	t.Parallel()

	used := MustParseCards("As Kd 7h")
	rest := Without(used)

	assert.Len(t, rest, 49)
	for _, c := range rest {
		for _, u := range used {
			assert.NotEqual(t, u, c)
		}
	}
}
