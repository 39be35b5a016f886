// Package broadcast fans table snapshots out to the viewers watching a
// session. Every viewer sees a snapshot redacted for its own perspective, so
// hole cards never cross the wire to someone not entitled to them.
package broadcast

import "github.com/lox/liveholdem/internal/game"

// Message types sent to viewers
const (
	TypeStateUpdate    = "state_update"
	TypePong           = "pong"
	TypeUpgradeSuccess = "upgrade_success"
	TypeUpgradeFailed  = "upgrade_failed"
	TypeError          = "error"
)

// Message is the envelope delivered to a viewer
type Message struct {
	Type   string      `json:"type"`
	State  *game.State `json:"state,omitempty"`
	Events []string    `json:"events,omitempty"`
	Error  string      `json:"error,omitempty"`
	Seat   *int        `json:"seat,omitempty"`
}
