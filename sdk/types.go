package sdk

// GameState is the role-filtered table snapshot returned by the server.
// Hole cards appear only for seats the requesting perspective may see.
type GameState struct {
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

// PlayerState describes one seat in a snapshot.
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

// Message is a frame pushed over the websocket stream.
type Message struct {
	Type   string     `json:"type"`
	State  *GameState `json:"state,omitempty"`
	Events []string   `json:"events,omitempty"`
	Error  string     `json:"error,omitempty"`
	Seat   *int       `json:"seat,omitempty"`
}

// Websocket message types pushed by the server.
const (
	MessageTypeStateUpdate    = "state_update"
	MessageTypePong           = "pong"
	MessageTypeUpgradeSuccess = "upgrade_success"
	MessageTypeUpgradeFailed  = "upgrade_failed"
	MessageTypeError          = "error"
)
