package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectatorSeesNoHoleCards(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, "alice", "bob")
	require.NoError(t, g.StartHand())

	s := g.StateFor(SpectatorView())
	for _, ps := range s.Players {
		assert.Nil(t, ps.Hand, "seat %d", ps.Seat)
	}
	assert.Equal(t, "preflop", s.Stage)
	assert.Equal(t, g.CurrentIndex, s.CurrentPlayerIndex)
}

func TestParticipantSeesOnlyOwnHoleCards(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, "alice", "bob")
	require.NoError(t, g.StartHand())

	s := g.StateFor(PlayerView(0))
	assert.Len(t, s.Players[0].Hand, 2)
	assert.Nil(t, s.Players[1].Hand)
}

func TestUnboundParticipantSeesNothing(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, "alice", "bob")
	require.NoError(t, g.StartHand())

	s := g.StateFor(Perspective{Role: Participant, Seat: -1})
	for _, ps := range s.Players {
		assert.Nil(t, ps.Hand)
	}
}

func TestShowdownRevealsOnlyContendingHands(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, "alice", "bob", "carol")
	require.NoError(t, g.StartHand())

	folded := g.CurrentIndex
	require.NoError(t, g.ExecuteAction(folded, Fold, 0))

	for !g.IsHandOver() {
		require.NoError(t, g.ExecuteAction(g.CurrentIndex, Check, 0))
	}
	require.Equal(t, Showdown, g.Stage)

	s := g.StateFor(SpectatorView())
	for _, ps := range s.Players {
		if ps.Seat == folded {
			assert.Nil(t, ps.Hand, "folded hands stay hidden at showdown")
		} else {
			assert.Len(t, ps.Hand, 2, "seat %d", ps.Seat)
		}
	}
	assert.True(t, s.GameOver)
}

func TestSnapshotCarriesActionContext(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, "alice", "bob")
	require.NoError(t, g.StartHand())
	require.NoError(t, g.ExecuteAction(g.CurrentIndex, Raise, 50))

	s := g.StateFor(SpectatorView())
	assert.Equal(t, 50, s.CurrentBet)
	assert.Equal(t, 50, s.ToCall)
	assert.Equal(t, []string{"fold", "call", "raise"}, s.LegalActions)
	assert.Equal(t, 50, s.Pot)
}

func TestSnapshotAfterFoldWinHasNoActor(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, "alice", "bob")
	require.NoError(t, g.StartHand())
	require.NoError(t, g.ExecuteAction(g.CurrentIndex, Fold, 0))

	s := g.StateFor(SpectatorView())
	assert.True(t, s.GameOver)
	assert.Equal(t, -1, s.CurrentPlayerIndex)
	assert.Empty(t, s.LegalActions)
	assert.Zero(t, s.ToCall)
}
