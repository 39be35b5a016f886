package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/liveholdem/internal/broadcast"
	"github.com/lox/liveholdem/internal/game"
	"github.com/lox/liveholdem/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// clientMessage is the envelope received from a viewer
type clientMessage struct {
	Type string `json:"type"`
	Seat *int   `json:"seat_index,omitempty"`
	Name string `json:"player_name,omitempty"`
}

// Connection is one WebSocket viewer attached to a session. It implements
// broadcast.Viewer; its perspective starts as a spectator and changes when
// the client upgrades to a seat. Upgrading binds visibility only: the seated
// Player is created and removed over the command surface, never by the
// stream.
type Connection struct {
	ws      *websocket.Conn
	send    chan broadcast.Message
	session *session.Session
	logger  *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu   sync.RWMutex
	view game.Perspective
}

func newConnection(ws *websocket.Conn, sess *session.Session, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		ws:      ws,
		send:    make(chan broadcast.Message, 64),
		session: sess,
		logger:  logger.WithPrefix("conn").With("game_id", sess.ID),
		ctx:     ctx,
		cancel:  cancel,
		view:    game.SpectatorView(),
	}
}

// Start begins the read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.ws.Close()
	})
	return err
}

// Done is closed when the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Perspective implements broadcast.Viewer
func (c *Connection) Perspective() game.Perspective {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

func (c *Connection) setPerspective(view game.Perspective) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view
}

// Send implements broadcast.Viewer. It never blocks: a viewer that cannot
// drain its buffer is closed and reported dropped.
func (c *Connection) Send(msg broadcast.Message) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return false
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg clientMessage
		if err := c.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			return
		}

		c.handleMessage(msg)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes one message from the viewer. Unknown types are
// logged and ignored so protocol additions never kill older connections.
func (c *Connection) handleMessage(msg clientMessage) {
	switch msg.Type {
	case "ping":
		c.Send(broadcast.Message{Type: broadcast.TypePong})

	case "upgrade_to_player":
		c.handleUpgrade(msg)

	case "downgrade_to_spectator":
		c.handleDowngrade()

	default:
		c.logger.Debug("ignoring unknown message", "type", msg.Type)
	}
}

// handleUpgrade binds the viewer to an already-seated player, granting
// visibility into that seat's hole cards. The seat itself is untouched.
func (c *Connection) handleUpgrade(msg clientMessage) {
	if msg.Seat == nil || msg.Name == "" {
		c.Send(broadcast.Message{Type: broadcast.TypeUpgradeFailed, Error: "player_name and seat_index required"})
		return
	}
	if view := c.Perspective(); view.Role == game.Participant {
		c.Send(broadcast.Message{Type: broadcast.TypeUpgradeFailed, Error: "already playing"})
		return
	}

	seat := *msg.Seat
	snapshot := c.session.Snapshot(game.SpectatorView())
	if seat < 0 || seat >= len(snapshot.Players) {
		c.Send(broadcast.Message{Type: broadcast.TypeUpgradeFailed, Error: "seat index out of range"})
		return
	}
	occupant := snapshot.Players[seat].Name
	if occupant == "" {
		c.Send(broadcast.Message{Type: broadcast.TypeUpgradeFailed, Error: "seat is not occupied"})
		return
	}
	if occupant != msg.Name {
		c.Send(broadcast.Message{Type: broadcast.TypeUpgradeFailed, Error: "name does not match the seated player"})
		return
	}

	c.setPerspective(game.PlayerView(seat))
	c.logger.Info("viewer upgraded to player", "seat", seat, "name", msg.Name)

	state := c.session.Snapshot(game.PlayerView(seat))
	c.Send(broadcast.Message{Type: broadcast.TypeUpgradeSuccess, Seat: &seat, State: &state})
}

// handleDowngrade reverts the viewer to spectating. The seat stays occupied;
// only the viewer's visibility changes.
func (c *Connection) handleDowngrade() {
	view := c.Perspective()
	if view.Role != game.Participant {
		return
	}

	c.setPerspective(game.SpectatorView())
	c.logger.Info("viewer downgraded to spectator", "seat", view.Seat)

	state := c.session.Snapshot(game.SpectatorView())
	c.Send(stateMessage(&state))
}

// stateMessage wraps a snapshot in a state update envelope
func stateMessage(state *game.State) broadcast.Message {
	return broadcast.Message{Type: broadcast.TypeStateUpdate, State: state}
}
