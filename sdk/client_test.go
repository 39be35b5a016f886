package sdk

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/liveholdem/internal/server"
	"github.com/lox/liveholdem/internal/session"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg := session.DefaultConfig()
	cfg.LobbySeconds = 0
	cfg.ThinkTimeMin = 0
	cfg.ThinkTimeMax = 0
	cfg.DecisionTimeout = 0
	cfg.Simulations = 50
	cfg.Seed = 1

	logger := log.New(io.Discard)
	coordinator := session.NewCoordinator(cfg, logger, quartz.NewReal())
	srv := server.NewServer("127.0.0.1:0", coordinator, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, logger)
}

func TestClientGameLifecycle(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	id, state, err := client.CreateGame(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, "lobby", state.Stage)
	assert.Equal(t, "alice", state.Players[0].Name)

	_, err = client.AddAIPlayer(ctx, id, 1, "tex", "montecarlo", "hard")
	require.NoError(t, err)

	resp, err := client.StartHand(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "preflop", resp.State.Stage)

	require.NoError(t, client.DeleteGame(ctx, id))

	_, err = client.State(ctx, id)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestClientSeatManagement(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	id, _, err := client.CreateGame(ctx)
	require.NoError(t, err)

	resp, err := client.JoinSeat(ctx, id, 2, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.State.Players[2].Name)

	// Taken seats conflict
	_, err = client.JoinSeat(ctx, id, 2, "carol")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	resp, err = client.LeaveSeat(ctx, id, 2)
	require.NoError(t, err)
	assert.Empty(t, resp.State.Players[2].Name)
}

func TestClientStateIsSpectatorView(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	id, _, err := client.CreateGame(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = client.StartHand(ctx, id)
	require.NoError(t, err)

	spectator, err := client.State(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, spectator.Players[0].Hand)
	assert.Nil(t, spectator.Players[1].Hand)
}

func TestClientCreateGameWithSeats(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	_, state, err := client.CreateGameWithSeats(ctx, 3, "alice")
	require.NoError(t, err)
	assert.Len(t, state.Players, 3)

	_, _, err = client.CreateGameWithSeats(ctx, 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestClientActionFlow(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	id, _, err := client.CreateGame(ctx, "alice", "bob")
	require.NoError(t, err)

	resp, err := client.StartHand(ctx, id)
	require.NoError(t, err)
	actor := resp.State.CurrentPlayerIndex

	// Out of turn conflicts
	_, err = client.SubmitAction(ctx, id, 1-actor, "check", 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	resp, err = client.SubmitAction(ctx, id, actor, "raise", 50)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Events)
	assert.Equal(t, 50, resp.State.CurrentBet)
}

func TestClientHealth(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	require.NoError(t, client.Health(context.Background()))
}
