package game

import "github.com/lox/liveholdem/internal/deck"

// Observation is the bounded view of the table handed to a decision engine:
// only the acting seat's own cards plus public information.
type Observation struct {
	Hole         []deck.Card
	Community    []deck.Card
	Stage        Stage
	Pot          int
	CurrentBet   int
	ToCall       int
	MinRaise     int
	Chips        int
	LegalActions []Action
	Opponents    int // seats still contending for the pot besides the actor
}

// ObservationFor builds the decision-engine view for the given seat
func (g *Game) ObservationFor(seat int) Observation {
	p := g.Players[seat]
	obs := Observation{
		Hole:       p.HoleCards,
		Community:  g.Community,
		Stage:      g.Stage,
		Pot:        g.Pot(),
		CurrentBet: g.CurrentBet,
		ToCall:     g.ToCall(p),
		MinRaise:   g.MinRaise,
		Chips:      p.Chips,
	}
	if seat == g.CurrentIndex {
		obs.LegalActions = g.LegalActions()
	}
	for _, other := range g.Players {
		if other.Seat != seat && other.InHand() {
			obs.Opponents++
		}
	}
	return obs
}
