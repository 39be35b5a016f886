// Package evaluator ranks poker hands. Evaluation is pure: the best five-card
// combination is selected from 5-7 input cards and described by a category
// plus a tie-break key of ranks in descending significance.
package evaluator

import (
	"sort"

	"github.com/lox/liveholdem/internal/deck"
)

// Category enumerates hand categories ordered from weakest to strongest.
// Indeterminate sorts below every real category; it is returned when fewer
// than five cards are available (e.g. evaluating hole cards preflop).
type Category int

const (
	Indeterminate Category = iota
	HighCard
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Indeterminate"
	}
}

// HandRank is the result of evaluating a hand: the category achieved and the
// tie-break key ordering hands within the same category.
type HandRank struct {
	Category Category
	Kickers  []deck.Rank
}

// Compare returns 1 if a beats b, -1 if b beats a, 0 on an exact tie.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if a.Kickers[i] != b.Kickers[i] {
			if a.Kickers[i] > b.Kickers[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate returns the best achievable rank from the given cards. Inputs with
// fewer than five cards yield an Indeterminate rank keyed by high cards, so
// preflop callers get a comparable result instead of a crash.
func Evaluate(cards []deck.Card) HandRank {
	if len(cards) < 5 {
		ranks := make([]deck.Rank, len(cards))
		for i, c := range cards {
			ranks[i] = c.Rank
		}
		sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
		return HandRank{Category: Indeterminate, Kickers: ranks}
	}

	best := HandRank{Category: Indeterminate}
	combination(cards, 5, func(hand []deck.Card) {
		rank := evaluate5(hand)
		if best.Category == Indeterminate || Compare(rank, best) > 0 {
			best = rank
		}
	})
	return best
}

// combination invokes fn for every k-card subset of cards
func combination(cards []deck.Card, k int, fn func([]deck.Card)) {
	n := len(cards)
	if k > n {
		return
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	hand := make([]deck.Card, k)

	for {
		for i, j := range idx {
			hand[i] = cards[j]
		}
		fn(hand)

		// Advance to the next subset
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// evaluate5 ranks exactly five cards
func evaluate5(hand []deck.Card) HandRank {
	ranks := make([]deck.Rank, 5)
	flush := true
	for i, c := range hand {
		ranks[i] = c.Rank
		if c.Suit != hand[0].Suit {
			flush = false
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	straightHigh, straight := straightHigh(ranks)

	switch {
	case flush && straight:
		return HandRank{Category: StraightFlush, Kickers: []deck.Rank{straightHigh}}
	case flush:
		return HandRank{Category: Flush, Kickers: ranks}
	case straight:
		return HandRank{Category: Straight, Kickers: []deck.Rank{straightHigh}}
	}

	// Group ranks by multiplicity, highest groups first
	counts := map[deck.Rank]int{}
	for _, r := range ranks {
		counts[r]++
	}
	groups := make([]deck.Rank, 0, len(counts))
	for r := range counts {
		groups = append(groups, r)
	}
	sort.Slice(groups, func(i, j int) bool {
		if counts[groups[i]] != counts[groups[j]] {
			return counts[groups[i]] > counts[groups[j]]
		}
		return groups[i] > groups[j]
	})

	kickers := make([]deck.Rank, 0, 5)
	for _, g := range groups {
		for i := 0; i < counts[g]; i++ {
			kickers = append(kickers, g)
		}
	}

	switch {
	case counts[groups[0]] == 4:
		return HandRank{Category: FourOfAKind, Kickers: kickers}
	case counts[groups[0]] == 3 && counts[groups[1]] == 2:
		return HandRank{Category: FullHouse, Kickers: kickers}
	case counts[groups[0]] == 3:
		return HandRank{Category: ThreeOfAKind, Kickers: kickers}
	case counts[groups[0]] == 2 && counts[groups[1]] == 2:
		return HandRank{Category: TwoPair, Kickers: kickers}
	case counts[groups[0]] == 2:
		return HandRank{Category: Pair, Kickers: kickers}
	default:
		return HandRank{Category: HighCard, Kickers: kickers}
	}
}

// straightHigh reports whether the sorted-descending ranks form a straight
// and returns its high card. The wheel (A-5) reports Five as its high card.
func straightHigh(sorted []deck.Rank) (deck.Rank, bool) {
	run := true
	for i := 1; i < 5; i++ {
		if sorted[i-1] != sorted[i]+1 {
			run = false
			break
		}
	}
	if run {
		return sorted[0], true
	}

	// Wheel: A 5 4 3 2
	if sorted[0] == deck.Ace && sorted[1] == deck.Five && sorted[2] == deck.Four &&
		sorted[3] == deck.Three && sorted[4] == deck.Two {
		return deck.Five, true
	}
	return 0, false
}
