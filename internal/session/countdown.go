package session

import (
	"context"
	"errors"
	"time"

	"github.com/lox/liveholdem/internal/game"
)

// maybeStartCountdownLocked begins the lobby countdown once the table can
// seat a hand. Ticks run on the coordinator clock; each tick is broadcast so
// viewers see the timer fall. Callers must hold s.mu.
func (c *Coordinator) maybeStartCountdownLocked(s *Session) {
	if c.cfg.LobbySeconds <= 0 {
		return
	}
	if s.countdownTimer != nil || s.game.Stage != game.Lobby {
		return
	}
	if s.game.FundedCount() < s.game.Policy().MinPlayers {
		return
	}

	s.countdownLeft = c.cfg.LobbySeconds
	s.game.LobbyTimer = &s.countdownLeft
	s.game.GameStarting = s.countdownLeft <= c.cfg.StartingSoonSeconds
	s.logger.Info("lobby countdown started", "seconds", s.countdownLeft)
	s.countdownTimer = c.clock.AfterFunc(time.Second, func() { c.countdownTick(s) })
}

// restartCountdownLocked resets the countdown to its full duration. Every
// seat change restarts the timer so late joiners get the whole lead time.
// Callers must hold s.mu.
func (c *Coordinator) restartCountdownLocked(s *Session) {
	s.stopCountdownLocked()
	c.maybeStartCountdownLocked(s)
}

// countdownTick advances the lobby countdown by one second. The countdown
// cancels itself if the table falls below the start minimum; at zero the
// hand starts and automated seats begin acting.
func (c *Coordinator) countdownTick(s *Session) {
	s.mu.Lock()

	if s.countdownTimer == nil || s.game.Stage != game.Lobby {
		s.mu.Unlock()
		return
	}

	if s.game.FundedCount() < s.game.Policy().MinPlayers {
		s.stopCountdownLocked()
		s.logger.Info("lobby countdown cancelled")
		s.broadcastLocked("start cancelled, waiting for players")
		s.mu.Unlock()
		return
	}

	s.countdownLeft--
	if s.countdownLeft > 0 {
		s.game.GameStarting = s.countdownLeft <= c.cfg.StartingSoonSeconds
		s.countdownTimer = c.clock.AfterFunc(time.Second, func() { c.countdownTick(s) })
		s.broadcastLocked()
		s.mu.Unlock()
		return
	}

	// Countdown expired: deal the hand
	s.countdownTimer = nil
	if err := s.game.StartHand(); err != nil {
		s.stopCountdownLocked()
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			// The table thinned out at the buzzer; re-arm once it refills
			s.logger.Info("auto-start deferred", "error", err)
			c.maybeStartCountdownLocked(s)
		} else {
			s.logger.Error("auto-start failed", "error", err)
		}
		s.mu.Unlock()
		return
	}
	s.game.LobbyTimer = nil
	s.game.GameStarting = false
	s.logger.Info("hand auto-started", "players", s.game.FundedCount())
	s.broadcastLocked("new hand dealt")
	s.mu.Unlock()

	go func() {
		events := c.runAutomatedTurns(context.Background(), s, s.game)
		if len(events) > 0 {
			s.logger.Debug("automated turns after auto-start", "count", len(events))
		}
	}()
}
