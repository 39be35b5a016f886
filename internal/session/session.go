// Package session serializes access to live tables and coordinates the
// pieces around them: viewer broadcast, the lobby countdown, and automated
// seats taking their turns. Every table mutation happens under its session's
// mutex, so concurrent requests against one game never interleave.
package session

import (
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/liveholdem/internal/broadcast"
	"github.com/lox/liveholdem/internal/game"
)

// Session owns one table and everything attached to it
type Session struct {
	ID string

	// mu serializes every read and mutation of game and the countdown
	// fields. The rng is guarded by the same mutex.
	mu   sync.Mutex
	game *game.Game
	rng  *rand.Rand

	registry *broadcast.Registry
	logger   *log.Logger

	// Lobby countdown, nil timer when idle
	countdownTimer *quartz.Timer
	countdownLeft  int
}

// Registry returns the session's viewer registry
func (s *Session) Registry() *broadcast.Registry {
	return s.registry
}

// Snapshot returns the table state redacted for the given perspective
func (s *Session) Snapshot(view game.Perspective) game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.StateFor(view)
}

// broadcastLocked fans the current state out to every viewer. Callers must
// hold s.mu; per-viewer redaction reads the game under the same lock.
func (s *Session) broadcastLocked(events ...string) {
	s.registry.Broadcast(s.game.StateFor, events)
}

// stopCountdownLocked halts the lobby countdown and clears its public fields
func (s *Session) stopCountdownLocked() {
	if s.countdownTimer != nil {
		s.countdownTimer.Stop()
		s.countdownTimer = nil
	}
	s.game.LobbyTimer = nil
	s.game.GameStarting = false
}
