package sdk

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Watcher is a live view onto one game's websocket stream. It starts as a
// spectator and can upgrade into a seat mid-stream.
type Watcher struct {
	conn   *websocket.Conn
	logger *log.Logger
}

type watcherRequest struct {
	Type string `json:"type"`
	Seat *int   `json:"seat_index,omitempty"`
	Name string `json:"player_name,omitempty"`
}

// Watch connects to a game's state stream.
func (c *Client) Watch(ctx context.Context, gameID string) (*Watcher, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.WebsocketURL(gameID), nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Watcher{conn: conn, logger: c.logger}, nil
}

// Next blocks until the server pushes the next message.
func (w *Watcher) Next() (Message, error) {
	var msg Message
	if err := w.conn.ReadJSON(&msg); err != nil {
		return Message{}, fmt.Errorf("stream closed: %w", err)
	}
	return msg, nil
}

// NextState reads messages until a state update arrives, skipping other
// frame types.
func (w *Watcher) NextState() (GameState, []string, error) {
	for {
		msg, err := w.Next()
		if err != nil {
			return GameState{}, nil, err
		}
		if msg.Type == MessageTypeStateUpdate && msg.State != nil {
			return *msg.State, msg.Events, nil
		}
	}
}

// Ping asks the server for a pong over the stream.
func (w *Watcher) Ping() error {
	return w.conn.WriteJSON(watcherRequest{Type: "ping"})
}

// UpgradeToPlayer binds the stream to an already-seated player, revealing
// that seat's hole cards. Take the seat with JoinSeat first; the server
// answers with an upgrade_success or upgrade_failed message on the stream.
func (w *Watcher) UpgradeToPlayer(seat int, name string) error {
	w.logger.Debug("requesting seat upgrade", "seat", seat, "name", name)
	return w.conn.WriteJSON(watcherRequest{Type: "upgrade_to_player", Seat: &seat, Name: name})
}

// DowngradeToSpectator reverts to the redacted spectator view. The seat
// itself stays occupied.
func (w *Watcher) DowngradeToSpectator() error {
	return w.conn.WriteJSON(watcherRequest{Type: "downgrade_to_spectator"})
}

// Close tears the stream down.
func (w *Watcher) Close() error {
	return w.conn.Close()
}
