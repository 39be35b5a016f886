package game

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction parses an action keyword from the wire
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	default:
		return 0, ErrUnknownAction
	}
}

// Decision is an action chosen by a decision engine. For raises, Amount is
// the increment over the current highest bet.
type Decision struct {
	Action Action
	Amount int
}

// ToCall returns the amount the given player must add to match the current
// bet, capped at their remaining stack.
func (g *Game) ToCall(p *Player) int {
	owed := g.CurrentBet - p.Bet
	if owed < 0 {
		owed = 0
	}
	return min(owed, p.Chips)
}

// LegalActions returns the actions available to the current actor, or nil
// when no seat is to act.
func (g *Game) LegalActions() []Action {
	p, ok := g.CurrentActor()
	if !ok || g.HandOver {
		return nil
	}

	owed := g.CurrentBet - p.Bet
	actions := []Action{Fold}
	if owed == 0 {
		actions = append(actions, Check)
	} else {
		actions = append(actions, Call)
	}
	if p.Chips > owed {
		actions = append(actions, Raise)
	}
	return actions
}

// ExecuteAction validates and applies one action for the given seat. It is
// the only mutator during a betting round. Any violated precondition returns
// an error with no state change.
//
// For raises, amount is the increment over the current highest bet. The
// minimum legal raise is the size of the last raise this round; committing
// the whole stack below that minimum is allowed but does not reopen action.
func (g *Game) ExecuteAction(seat int, action Action, amount int) error {
	if g.broken != nil {
		return g.broken
	}
	if g.Stage == Lobby || g.Stage == Showdown || g.HandOver {
		return ErrWrongStage
	}
	if seat < 0 || seat >= len(g.Players) {
		return ErrSeatOutOfRange
	}
	if seat != g.CurrentIndex {
		return ErrNotYourTurn
	}
	p := g.Players[seat]
	if !p.CanAct() {
		return ErrNotYourTurn
	}

	owed := g.CurrentBet - p.Bet

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if owed != 0 {
			return ErrCannotCheck
		}

	case Call:
		g.commit(p, owed)

	case Raise:
		if amount <= 0 {
			return ErrRaiseTooSmall
		}
		// Below the minimum raise is only legal as a full-stack all-in
		if amount < g.MinRaise && owed+amount < p.Chips {
			return ErrRaiseTooSmall
		}
		g.commit(p, owed+amount)
		if p.Bet > g.CurrentBet {
			raised := p.Bet - g.CurrentBet
			g.CurrentBet = p.Bet
			// A full-size raise reopens the action; an under-minimum
			// all-in only obliges the others to match it.
			if raised >= g.MinRaise {
				g.MinRaise = raised
				for i := range g.acted {
					g.acted[i] = false
				}
			}
		}

	default:
		return ErrUnknownAction
	}

	g.acted[seat] = true
	g.afterAction(seat)
	return nil
}

// afterAction advances the turn, closes the betting round, or ends the hand
func (g *Game) afterAction(seat int) {
	if g.countInHand() <= 1 {
		g.resolveByFold()
		return
	}

	if g.roundComplete() {
		g.advanceStreet()
		return
	}

	g.CurrentIndex = g.nextActive(seat + 1)
	if g.CurrentIndex == -1 {
		// No seat can act; run the remaining streets out
		g.advanceStreet()
	}
}

// roundComplete reports whether the open betting round is finished: every
// seat that can still act has acted since the round (re)opened and matches
// the current bet, or at most one such seat remains with a matched bet.
func (g *Game) roundComplete() bool {
	for i, p := range g.Players {
		if !p.CanAct() {
			continue
		}
		if !g.acted[i] || p.Bet != g.CurrentBet {
			return false
		}
	}
	return true
}

// advanceStreet deals the next community cards and opens a fresh betting
// round, or resolves the showdown after the river. When nobody can act the
// remaining streets run out automatically.
func (g *Game) advanceStreet() {
	for _, p := range g.Players {
		p.Bet = 0
	}
	g.CurrentBet = 0
	g.MinRaise = max(g.config.BigBlind, 1)
	g.acted = make([]bool, len(g.Players))

	var draw int
	switch g.Stage {
	case Preflop:
		g.Stage, draw = Flop, 3
	case Flop:
		g.Stage, draw = Turn, 1
	case Turn:
		g.Stage, draw = River, 1
	case River:
		g.resolveShowdown()
		return
	default:
		return
	}

	cards, ok := g.deck.DrawN(draw)
	if !ok {
		_ = g.breach()
		return
	}
	g.Community = append(g.Community, cards...)

	// With fewer than two seats able to act no further betting is possible:
	// run the remaining streets out to showdown.
	if g.canActCount() <= 1 && g.countInHand() > 1 {
		g.CurrentIndex = -1
		g.advanceStreet()
		return
	}

	g.CurrentIndex = g.nextActive(g.Button + 1)
}

func (g *Game) canActCount() int {
	n := 0
	for _, p := range g.Players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// resolveByFold awards the pot to the last seat still in the hand
func (g *Game) resolveByFold() {
	for _, p := range g.Players {
		if p.InHand() {
			p.Chips += g.Pot()
			break
		}
	}
	g.finishHand()
}

// finishHand clears commitments and settles the stage for the next hand:
// back to the lobby when too few funded seats remain.
func (g *Game) finishHand() {
	for _, p := range g.Players {
		p.Bet = 0
		p.TotalBet = 0
	}
	g.CurrentIndex = -1
	g.HandOver = true
	if g.FundedCount() < g.config.MinPlayers {
		g.Stage = Lobby
	}
}
