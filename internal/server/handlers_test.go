package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/liveholdem/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := session.DefaultConfig()
	cfg.LobbySeconds = 0
	cfg.ThinkTimeMin = 0
	cfg.ThinkTimeMax = 0
	cfg.DecisionTimeout = 0
	cfg.Simulations = 50
	cfg.Seed = 1

	coordinator := session.NewCoordinator(cfg, log.New(io.Discard), quartz.NewReal())
	srv := NewServer("127.0.0.1:0", coordinator, log.New(io.Discard))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var payload map[string]json.RawMessage
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	}
	return resp, payload
}

func createGame(t *testing.T, ts *httptest.Server, players ...string) string {
	t.Helper()

	resp, payload := doJSON(t, http.MethodPost, ts.URL+"/create_game", createGameRequest{Players: players})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var id string
	require.NoError(t, json.Unmarshal(payload["game_id"], &id))
	require.NotEmpty(t, id)
	return id
}

func decodeState(t *testing.T, payload map[string]json.RawMessage) map[string]json.RawMessage {
	t.Helper()
	var state map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload["state"], &state))
	return state
}

func stringField(t *testing.T, obj map[string]json.RawMessage, key string) string {
	t.Helper()
	var v string
	require.NoError(t, json.Unmarshal(obj[key], &v))
	return v
}

func TestCreateGameEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, payload := doJSON(t, http.MethodPost, ts.URL+"/create_game", createGameRequest{Players: []string{"alice", "bob"}})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	state := decodeState(t, payload)
	assert.Equal(t, "lobby", stringField(t, state, "stage"))
}

func TestCreateGameSeatCount(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp, payload := doJSON(t, http.MethodPost, ts.URL+"/create_game",
		createGameRequest{Players: []string{"alice"}, SeatCount: 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	state := decodeState(t, payload)
	var players []json.RawMessage
	require.NoError(t, json.Unmarshal(state["players"], &players))
	assert.Len(t, players, 3)

	// Out-of-range table sizes are rejected
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/create_game", createGameRequest{SeatCount: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/create_game", createGameRequest{SeatCount: 11})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJoinSeatEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createGame(t, ts)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/join_seat/"+id, seatRequest{Seat: 0, Name: "alice"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The same seat cannot be taken twice
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/join_seat/"+id, seatRequest{Seat: 0, Name: "bob"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// A name is mandatory
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/join_seat/"+id, seatRequest{Seat: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownGameReturns404(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/state/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/join_seat/nope", seatRequest{Seat: 0, Name: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/game/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStartHandAndActionFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createGame(t, ts, "alice", "bob")

	resp, payload := doJSON(t, http.MethodPost, ts.URL+"/start_hand/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeState(t, payload)
	assert.Equal(t, "preflop", stringField(t, state, "stage"))

	// A second start while the hand runs conflicts
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/start_hand/"+id, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var actor int
	require.NoError(t, json.Unmarshal(state["current_player_index"], &actor))

	// Acting out of turn conflicts, acting in turn succeeds
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/action/"+id, actionRequest{Seat: 1 - actor, Action: "check"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, payload = doJSON(t, http.MethodPost, ts.URL+"/action/"+id, actionRequest{Seat: actor, Action: "check"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []string
	require.NoError(t, json.Unmarshal(payload["events"], &events))
	assert.NotEmpty(t, events)
}

func TestActionValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createGame(t, ts, "alice", "bob")
	doJSON(t, http.MethodPost, ts.URL+"/start_hand/"+id, nil)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/action/"+id, actionRequest{Seat: 0, Action: "explode"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStateEndpointNeverRevealsHoleCards(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createGame(t, ts, "alice", "bob")
	doJSON(t, http.MethodPost, ts.URL+"/start_hand/"+id, nil)

	// The REST snapshot is always the spectator view; a seat query
	// parameter must not leak cards to an unauthenticated caller
	for _, url := range []string{ts.URL + "/state/" + id, ts.URL + "/state/" + id + "?seat=0"} {
		_, payload := doJSON(t, http.MethodGet, url, nil)
		state := decodeState(t, payload)
		var players []map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(state["players"], &players))
		assert.Nil(t, players[0]["hand"])
		assert.Nil(t, players[1]["hand"])
	}
}

func TestAddAIPlayerEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createGame(t, ts, "alice")

	resp, payload := doJSON(t, http.MethodPost, ts.URL+"/add_ai_player/"+id,
		addAIPlayerRequest{Seat: 1, Name: "tex", Strategy: "montecarlo", Difficulty: "hard"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	state := decodeState(t, payload)
	var players []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(state["players"], &players))

	var isBot bool
	require.NoError(t, json.Unmarshal(players[1]["is_bot"], &isBot))
	assert.True(t, isBot)
}

func TestDeleteGameEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	id := createGame(t, ts, "alice", "bob")

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/game/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/state/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	resp, err := http.Get(fmt.Sprintf("%s/health", ts.URL))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
