// Package sdk provides a Go client for the liveholdem server: a REST client
// for table management and actions, and a websocket Watcher for the live
// state stream.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client talks to the liveholdem REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the server at baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.WithPrefix("sdk"),
	}
}

type createGameRequest struct {
	Players   []string `json:"players"`
	SeatCount int      `json:"seat_count,omitempty"`
}

type createGameResponse struct {
	GameID string    `json:"game_id"`
	State  GameState `json:"state"`
}

type seatRequest struct {
	Seat int    `json:"seat"`
	Name string `json:"name,omitempty"`
}

type addAIPlayerRequest struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name,omitempty"`
	Strategy   string `json:"strategy,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type actionRequest struct {
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// StateResponse carries a snapshot plus the events the triggering call produced.
type StateResponse struct {
	State  GameState `json:"state"`
	Events []string  `json:"events,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// CreateGame creates a session, seating the named players from seat 0 up.
func (c *Client) CreateGame(ctx context.Context, players ...string) (string, GameState, error) {
	return c.createGame(ctx, createGameRequest{Players: players})
}

// CreateGameWithSeats creates a session with a specific table size
// (2 to 10 seats).
func (c *Client) CreateGameWithSeats(ctx context.Context, seatCount int, players ...string) (string, GameState, error) {
	return c.createGame(ctx, createGameRequest{Players: players, SeatCount: seatCount})
}

func (c *Client) createGame(ctx context.Context, req createGameRequest) (string, GameState, error) {
	var resp createGameResponse
	err := c.do(ctx, http.MethodPost, "/create_game", req, &resp)
	if err != nil {
		return "", GameState{}, err
	}
	c.logger.Debug("created game", "game_id", resp.GameID)
	return resp.GameID, resp.State, nil
}

// JoinSeat takes a seat at the table as a named human player.
func (c *Client) JoinSeat(ctx context.Context, gameID string, seat int, name string) (StateResponse, error) {
	var resp StateResponse
	err := c.do(ctx, http.MethodPost, "/join_seat/"+gameID, seatRequest{Seat: seat, Name: name}, &resp)
	return resp, err
}

// LeaveSeat vacates a seat. Valid in the lobby or between hands; mid-hand
// requests conflict.
func (c *Client) LeaveSeat(ctx context.Context, gameID string, seat int) (StateResponse, error) {
	var resp StateResponse
	err := c.do(ctx, http.MethodPost, "/leave_seat/"+gameID, seatRequest{Seat: seat}, &resp)
	return resp, err
}

// AddAIPlayer seats an automated opponent. Strategy and difficulty fall back
// to server defaults when empty.
func (c *Client) AddAIPlayer(ctx context.Context, gameID string, seat int, name, strategy, difficulty string) (StateResponse, error) {
	var resp StateResponse
	err := c.do(ctx, http.MethodPost, "/add_ai_player/"+gameID, addAIPlayerRequest{
		Seat:       seat,
		Name:       name,
		Strategy:   strategy,
		Difficulty: difficulty,
	}, &resp)
	return resp, err
}

// StartHand deals a new hand immediately, bypassing the lobby countdown.
func (c *Client) StartHand(ctx context.Context, gameID string) (StateResponse, error) {
	var resp StateResponse
	err := c.do(ctx, http.MethodPost, "/start_hand/"+gameID, nil, &resp)
	return resp, err
}

// SubmitAction plays an action ("fold", "check", "call", "raise") for a seat.
// For raises, amount is the increment above the current bet.
func (c *Client) SubmitAction(ctx context.Context, gameID string, seat int, action string, amount int) (StateResponse, error) {
	var resp StateResponse
	err := c.do(ctx, http.MethodPost, "/action/"+gameID, actionRequest{Seat: seat, Action: action, Amount: amount}, &resp)
	return resp, err
}

// State fetches a spectator snapshot of the table. Hole cards are only
// available over a Watcher upgraded to a seat.
func (c *Client) State(ctx context.Context, gameID string) (GameState, error) {
	var resp StateResponse
	err := c.do(ctx, http.MethodGet, "/state/"+gameID, nil, &resp)
	return resp.State, err
}

// DeleteGame tears the session down and disconnects its viewers.
func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodDelete, "/game/"+gameID, nil, nil)
}

// Health reports whether the server answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// WebsocketURL returns the stream endpoint for a game, suitable for Watch.
func (c *Client) WebsocketURL(gameID string) string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + "/ws/" + gameID
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/" + gameID
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
