// Package game implements the betting-round state machine for a no-limit
// hold'em table: seats, pot, turn order, street dealing and hand resolution.
// A Game is not safe for concurrent use; callers serialize access per session.
package game

import (
	"math/rand"

	"github.com/lox/liveholdem/internal/deck"
)

// Stage represents the phase of a hand
type Stage int

const (
	Lobby Stage = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	return [...]string{"lobby", "preflop", "flop", "turn", "river", "showdown"}[s]
}

// Config holds the table policy knobs.
//
// Blind posting is a policy choice: the defaults post no blinds, so a fresh
// hand opens with an empty pot and action on the seat after the button. When
// blinds are configured, the two seats after the button post and, heads-up,
// the button posts the small blind.
type Config struct {
	SeatCount  int
	StartChips int
	SmallBlind int
	BigBlind   int
	MinPlayers int
}

// DefaultConfig returns the default table policy
func DefaultConfig() Config {
	return Config{
		SeatCount:  6,
		StartChips: 1000,
		SmallBlind: 0,
		BigBlind:   0,
		MinPlayers: 2,
	}
}

// Game is the authoritative state of one table. Exactly one coordinator-held
// exclusive section mutates a Game at a time.
type Game struct {
	ID        string
	Stage     Stage
	Players   []*Player
	Community []deck.Card
	Button    int

	// Betting state for the open round
	CurrentBet   int
	MinRaise     int
	CurrentIndex int // seat to act, -1 when none
	acted        []bool

	// Lobby state
	LobbyTimer   *int // seconds remaining, nil outside the lobby countdown
	GameStarting bool

	HandOver bool

	config Config
	deck   *deck.Deck
	rng    *rand.Rand
	broken error // set on internal invariant breach; poisons this game only
}

// New creates a game in the lobby stage. Initial names fill seats from seat
// zero; remaining seats stay empty. The RNG drives every shuffle for this
// game so hands are reproducible under test.
func New(id string, names []string, cfg Config, rng *rand.Rand) *Game {
	if cfg.SeatCount <= 0 {
		cfg.SeatCount = DefaultConfig().SeatCount
	}
	if cfg.StartChips <= 0 {
		cfg.StartChips = DefaultConfig().StartChips
	}
	if cfg.MinPlayers < 2 {
		cfg.MinPlayers = 2
	}

	g := &Game{
		ID:           id,
		Stage:        Lobby,
		Players:      make([]*Player, cfg.SeatCount),
		CurrentIndex: -1,
		config:       cfg,
		rng:          rng,
	}

	for i := range g.Players {
		g.Players[i] = &Player{Seat: i}
		if i < len(names) && names[i] != "" {
			g.Players[i].Name = names[i]
			g.Players[i].Chips = cfg.StartChips
		}
	}

	return g
}

// Policy returns the table configuration
func (g *Game) Policy() Config {
	return g.config
}

// Broken returns the invariant-breach error poisoning this game, if any
func (g *Game) Broken() error {
	return g.broken
}

// SeatedCount returns the number of occupied seats
func (g *Game) SeatedCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Seated() {
			n++
		}
	}
	return n
}

// FundedCount returns the number of occupied seats with chips remaining
func (g *Game) FundedCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Seated() && p.Chips > 0 {
			n++
		}
	}
	return n
}

// Pot returns the total chips committed to the current hand and not yet
// returned: the sum of every seat's hand-total commitment.
func (g *Game) Pot() int {
	total := 0
	for _, p := range g.Players {
		total += p.TotalBet
	}
	return total
}

// CurrentActor returns the player whose action is required, if any
func (g *Game) CurrentActor() (*Player, bool) {
	if g.CurrentIndex < 0 || g.CurrentIndex >= len(g.Players) {
		return nil, false
	}
	return g.Players[g.CurrentIndex], true
}

// IsHandOver reports whether the current hand has been resolved
func (g *Game) IsHandOver() bool {
	return g.HandOver
}

// JoinSeat seats a human player in the lobby or between hands
func (g *Game) JoinSeat(seat int, name string) error {
	return g.occupySeat(seat, name, false, "", "")
}

// AddAutomatedPlayer seats an automated player in the lobby or between hands.
// Strategy and difficulty select the decision engine used on its turns.
func (g *Game) AddAutomatedPlayer(seat int, name, strategy, difficulty string) error {
	return g.occupySeat(seat, name, true, strategy, difficulty)
}

func (g *Game) occupySeat(seat int, name string, automated bool, strategy, difficulty string) error {
	if g.Stage != Lobby && !g.HandOver {
		return ErrWrongStage
	}
	if seat < 0 || seat >= len(g.Players) {
		return ErrSeatOutOfRange
	}
	p := g.Players[seat]
	if p.Seated() {
		return ErrSeatTaken
	}

	p.Name = name
	p.Automated = automated
	p.Strategy = strategy
	p.Difficulty = difficulty
	p.Folded = false
	p.AllIn = false
	p.Bet = 0
	p.TotalBet = 0
	p.HoleCards = nil
	if p.Chips <= 0 {
		p.Chips = g.config.StartChips
	}
	return nil
}

// LeaveSeat vacates a seat in the lobby or between hands; a seat cannot be
// abandoned mid-hand. The departing stack is forfeited so the next occupant
// buys in fresh.
func (g *Game) LeaveSeat(seat int) error {
	if g.Stage != Lobby && !g.HandOver {
		return ErrWrongStage
	}
	if seat < 0 || seat >= len(g.Players) {
		return ErrSeatOutOfRange
	}
	p := g.Players[seat]
	if !p.Seated() {
		return ErrSeatEmpty
	}

	*p = Player{Seat: seat}
	return nil
}

// StartHand deals a new hand. Valid from the lobby once the seat minimum is
// met, or after a finished hand; never while a hand is in progress.
func (g *Game) StartHand() error {
	if g.broken != nil {
		return g.broken
	}
	if g.Stage != Lobby && !g.HandOver {
		return ErrHandInProgress
	}
	if g.FundedCount() < g.config.MinPlayers {
		if g.Stage != Lobby {
			g.Stage = Lobby
		}
		return ErrNotEnoughPlayers
	}

	g.Button = g.nextSeated(g.Button + 1)
	g.deck = deck.New(g.rng)
	g.Community = nil
	g.Stage = Preflop
	g.HandOver = false
	g.LobbyTimer = nil
	g.GameStarting = false
	g.CurrentBet = 0
	g.MinRaise = max(g.config.BigBlind, 1)
	g.acted = make([]bool, len(g.Players))

	for _, p := range g.Players {
		p.Bet = 0
		p.TotalBet = 0
		p.AllIn = false
		p.HoleCards = nil
		// Empty and busted seats sit the hand out
		p.Folded = !p.Seated() || p.Chips <= 0
	}

	for _, p := range g.Players {
		if p.Folded {
			continue
		}
		cards, ok := g.deck.DrawN(2)
		if !ok {
			return g.breach()
		}
		p.HoleCards = cards
	}

	first := g.Button + 1
	if g.config.BigBlind > 0 {
		first = g.postBlinds()
	}
	g.CurrentIndex = g.nextActive(first)
	return nil
}

// postBlinds posts the configured blinds and returns the seat preference for
// first action (the seat after the big blind).
func (g *Game) postBlinds() int {
	sb := g.nextActive(g.Button + 1)
	if g.countInHand() == 2 {
		// Heads-up: the button posts the small blind
		sb = g.nextActive(g.Button)
	}
	bb := g.nextActive(sb + 1)

	g.commit(g.Players[sb], g.config.SmallBlind)
	g.commit(g.Players[bb], g.config.BigBlind)
	g.CurrentBet = g.config.BigBlind
	return bb + 1
}

// commit moves up to amount chips from the player's stack into their round
// commitment, flagging an all-in when the stack is consumed.
func (g *Game) commit(p *Player, amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 && p.Seated() {
		p.AllIn = true
	}
	return amount
}

// nextSeated returns the next occupied seat at or after from, wrapping
func (g *Game) nextSeated(from int) int {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if g.Players[seat].Seated() {
			return seat
		}
	}
	return 0
}

// nextActive returns the next seat that can act at or after from, or -1
func (g *Game) nextActive(from int) int {
	n := len(g.Players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if g.Players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

func (g *Game) countInHand() int {
	n := 0
	for _, p := range g.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

func (g *Game) breach() error {
	g.broken = ErrDeckExhausted
	g.CurrentIndex = -1
	g.HandOver = true
	return g.broken
}
