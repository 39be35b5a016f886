package game

import "github.com/lox/liveholdem/internal/deck"

// Role determines how much of the table a viewer may see
type Role int

const (
	Spectator Role = iota
	Participant
)

// Perspective identifies who is looking at the table. Spectators and
// participants without a bound seat see no hole cards; a participant sees
// their own seat's cards, and everyone sees non-folded cards at showdown.
type Perspective struct {
	Role Role
	Seat int // bound seat for participants, -1 when unbound
}

// SpectatorView is the perspective with nothing revealed
func SpectatorView() Perspective {
	return Perspective{Role: Spectator, Seat: -1}
}

// PlayerView is the perspective of the participant bound to seat
func PlayerView(seat int) Perspective {
	return Perspective{Role: Participant, Seat: seat}
}

// State is a self-contained snapshot of the table, already redacted for one
// perspective. It carries everything a client renders.
type State struct {
	GameID             string        `json:"game_id"`
	Stage              string        `json:"stage"`
	CommunityCards     []string      `json:"community_cards"`
	Pot                int           `json:"pot"`
	CurrentBet         int           `json:"current_bet"`
	ToCall             int           `json:"to_call"`
	LegalActions       []string      `json:"legal_actions"`
	Players            []PlayerState `json:"players"`
	CurrentPlayerIndex int           `json:"current_player_index"`
	LobbyTimer         *int          `json:"lobby_timer,omitempty"`
	GameStarting       bool          `json:"game_starting"`
	GameOver           bool          `json:"game_over"`
}

// PlayerState is one seat in a snapshot. Hand is nil when hidden from the
// viewing perspective, and an empty slice for a seated player with no cards.
type PlayerState struct {
	Seat       int      `json:"seat"`
	Name       string   `json:"name"`
	Chips      int      `json:"chips"`
	Folded     bool     `json:"folded"`
	AllIn      bool     `json:"all_in"`
	CurrentBet int      `json:"current_bet"`
	TotalBet   int      `json:"total_bet"`
	IsBot      bool     `json:"is_bot"`
	Hand       []string `json:"hand,omitempty"`
}

// StateFor builds a snapshot of the table redacted for the given perspective
func (g *Game) StateFor(view Perspective) State {
	s := State{
		GameID:             g.ID,
		Stage:              g.Stage.String(),
		CommunityCards:     deck.Strings(g.Community),
		Pot:                g.Pot(),
		CurrentBet:         g.CurrentBet,
		Players:            make([]PlayerState, 0, len(g.Players)),
		CurrentPlayerIndex: g.CurrentIndex,
		GameStarting:       g.GameStarting,
		GameOver:           g.HandOver,
	}

	// Copy the countdown value so the snapshot is a point in time, not a
	// window onto the live timer
	if g.LobbyTimer != nil {
		left := *g.LobbyTimer
		s.LobbyTimer = &left
	}

	if actor, ok := g.CurrentActor(); ok && !g.HandOver {
		s.ToCall = g.ToCall(actor)
		for _, a := range g.LegalActions() {
			s.LegalActions = append(s.LegalActions, a.String())
		}
	}

	for _, p := range g.Players {
		if !p.Seated() {
			s.Players = append(s.Players, PlayerState{Seat: p.Seat})
			continue
		}
		ps := PlayerState{
			Seat:       p.Seat,
			Name:       p.Name,
			Chips:      p.Chips,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			CurrentBet: p.Bet,
			TotalBet:   p.TotalBet,
			IsBot:      p.Automated,
		}
		if g.revealedTo(view, p) {
			ps.Hand = deck.Strings(p.HoleCards)
		}
		s.Players = append(s.Players, ps)
	}

	return s
}

// revealedTo reports whether a seat's hole cards are visible to the viewer.
// Participants see their own seat; at showdown every non-folded hand is shown.
func (g *Game) revealedTo(view Perspective, p *Player) bool {
	if len(p.HoleCards) == 0 {
		return false
	}
	if g.Stage == Showdown && !p.Folded {
		return true
	}
	return view.Role == Participant && view.Seat == p.Seat
}
