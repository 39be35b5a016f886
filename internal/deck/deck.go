package deck

import "math/rand"

// Deck represents a shuffled 52-card deck consumed by drawing. Decks never
// contain duplicates; an exhausted deck reports failure rather than recycling.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// New creates a new shuffled deck using the provided random source.
// The RNG is injected so hands are reproducible under test.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.shuffle()
	return d
}

// Without returns the cards of a full deck minus the given cards, in no
// particular order. Used by simulations that sample from a reduced deck.
func Without(used []Card) []Card {
	seen := make(map[Card]bool, len(used))
	for _, c := range used {
		seen[c] = true
	}

	remaining := make([]Card, 0, 52-len(used))
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if !seen[c] {
				remaining = append(remaining, c)
			}
		}
	}
	return remaining
}

func (d *Deck) shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. The second return value is false
// once the deck is exhausted.
func (d *Deck) Draw() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// DrawN draws n cards. Returns nil and false if fewer than n remain.
func (d *Deck) DrawN(n int) ([]Card, bool) {
	if d.next+n > len(d.cards) {
		return nil, false
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, true
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
