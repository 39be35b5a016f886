package game

import "github.com/lox/liveholdem/internal/deck"

// Player is one seat at the table. A player is owned exclusively by the Game
// that contains it; an empty Name means the seat is unoccupied.
type Player struct {
	Seat       int
	Name       string
	Chips      int
	HoleCards  []deck.Card
	Folded     bool
	AllIn      bool
	Bet        int // committed this betting round
	TotalBet   int // committed this hand
	Automated  bool
	Strategy   string // decision engine for automated seats
	Difficulty string
}

// Seated reports whether the seat is occupied
func (p *Player) Seated() bool {
	return p.Name != ""
}

// CanAct reports whether the player can still act this hand
func (p *Player) CanAct() bool {
	return p.Seated() && !p.Folded && !p.AllIn
}

// InHand reports whether the player is still contending for the pot
func (p *Player) InHand() bool {
	return p.Seated() && !p.Folded
}
