package game

import (
	"sort"

	"github.com/lox/liveholdem/internal/evaluator"
)

// resolveShowdown evaluates every non-folded hand and distributes the pot.
// Each wagering tier is settled independently, most-constrained (smallest
// all-in) tier first; folded seats fund tiers but never collect from them.
// Exact ties split equally with the remainder going by seat order from the
// button.
func (g *Game) resolveShowdown() {
	g.Stage = Showdown
	g.CurrentIndex = -1

	ranks := make(map[int]evaluator.HandRank)
	for _, p := range g.Players {
		if p.InHand() {
			ranks[p.Seat] = evaluator.Evaluate(append(p.HoleCards[:len(p.HoleCards):len(p.HoleCards)], g.Community...))
		}
	}

	for _, tier := range g.wageringTiers() {
		winners := bestSeats(tier.eligible, ranks)
		if len(winners) == 0 {
			continue
		}

		share := tier.amount / len(winners)
		for _, seat := range winners {
			g.Players[seat].Chips += share
		}

		// Odd chips go by seat order starting after the button
		remainder := tier.amount % len(winners)
		isWinner := make(map[int]bool, len(winners))
		for _, seat := range winners {
			isWinner[seat] = true
		}
		for i := 1; remainder > 0 && i <= len(g.Players); i++ {
			seat := (g.Button + i) % len(g.Players)
			if isWinner[seat] {
				g.Players[seat].Chips++
				remainder--
			}
		}
	}

	g.finishHand()
}

type tier struct {
	amount   int
	eligible []int
}

// wageringTiers splits the hand's commitments into side-pot tiers. Tier caps
// are the distinct total commitments of non-folded seats, ascending; every
// seat (folded included) funds each tier up to its cap.
func (g *Game) wageringTiers() []tier {
	caps := make([]int, 0, len(g.Players))
	seen := make(map[int]bool)
	for _, p := range g.Players {
		if p.InHand() && p.TotalBet > 0 && !seen[p.TotalBet] {
			caps = append(caps, p.TotalBet)
			seen[p.TotalBet] = true
		}
	}
	sort.Ints(caps)

	tiers := make([]tier, 0, len(caps))
	prev := 0
	for _, cap := range caps {
		t := tier{}
		for _, p := range g.Players {
			contribution := min(p.TotalBet, cap) - prev
			if contribution > 0 {
				t.amount += contribution
			}
			if p.InHand() && p.TotalBet >= cap {
				t.eligible = append(t.eligible, p.Seat)
			}
		}
		if t.amount > 0 {
			tiers = append(tiers, t)
		}
		prev = cap
	}
	return tiers
}

// bestSeats returns the seats holding the strongest rank among eligible
func bestSeats(eligible []int, ranks map[int]evaluator.HandRank) []int {
	var winners []int
	var best evaluator.HandRank
	for _, seat := range eligible {
		rank, ok := ranks[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			winners = []int{seat}
			best = rank
			continue
		}
		switch evaluator.Compare(rank, best) {
		case 1:
			winners = []int{seat}
			best = rank
		case 0:
			winners = append(winners, seat)
		}
	}
	return winners
}
