package session

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/liveholdem/internal/ai"
	"github.com/lox/liveholdem/internal/game"
	"github.com/lox/liveholdem/internal/randutil"
)

// actionTable is the slice of the game the automated-turn loop needs. It is
// narrow so tests can drive the loop against a stub table.
type actionTable interface {
	CurrentActor() (*game.Player, bool)
	IsHandOver() bool
	ObservationFor(seat int) game.Observation
	ExecuteAction(seat int, action game.Action, amount int) error
}

// runAutomatedTurns lets automated seats act until a human is up, the hand
// resolves, or the turn bound is hit. The bound guards against a table state
// that never advances. Each applied action is broadcast individually so
// viewers watch play unfold.
func (c *Coordinator) runAutomatedTurns(ctx context.Context, s *Session, table actionTable) []string {
	var events []string

	for turn := 0; turn < c.cfg.MaxAutomatedTurns; turn++ {
		s.mu.Lock()
		actor, ok := table.CurrentActor()
		if !ok || table.IsHandOver() || !actor.Automated {
			s.mu.Unlock()
			return events
		}

		seat, name := actor.Seat, actor.Name
		strategy, difficulty := actor.Strategy, actor.Difficulty
		obs := table.ObservationFor(seat)
		seed := randutil.Derive(s.rng)
		think := c.thinkTime(s)
		s.mu.Unlock()

		// Decision and pacing happen outside the lock so viewers and other
		// requests are never blocked on a thinking automated player.
		decision := c.decide(ctx, obs, strategy, difficulty, seed)
		if !c.pause(ctx, think) {
			return events
		}

		s.mu.Lock()
		// The table may have moved on while we were thinking
		actor, ok = table.CurrentActor()
		if !ok || table.IsHandOver() || actor.Seat != seat {
			s.mu.Unlock()
			continue
		}

		if err := table.ExecuteAction(seat, decision.Action, decision.Amount); err != nil {
			s.logger.Warn("automated action rejected, surrendering turn",
				"seat", seat, "action", decision.Action.String(), "error", err)
			decision = surrenderDecision(table.ObservationFor(seat))
			if err := table.ExecuteAction(seat, decision.Action, decision.Amount); err != nil {
				s.logger.Error("automated surrender rejected", "seat", seat, "error", err)
				s.mu.Unlock()
				return events
			}
		}

		event := describeAction(name, decision)
		if think > 0 {
			event = fmt.Sprintf("%s (thought for %.1fs)", event, think.Seconds())
		}
		events = append(events, event)
		s.broadcastLocked(event)
		s.mu.Unlock()
	}

	s.logger.Warn("automated turn bound reached", "bound", c.cfg.MaxAutomatedTurns)
	return events
}

// decide computes an automated decision under the bounded worker pool. A
// computation that overruns the timeout surrenders the turn instead of
// stalling the table.
func (c *Coordinator) decide(ctx context.Context, obs game.Observation, strategy, difficulty string, seed int64) game.Decision {
	if err := c.decisionSem.Acquire(ctx, 1); err != nil {
		return surrenderDecision(obs)
	}

	result := make(chan game.Decision, 1)
	go func() {
		defer c.decisionSem.Release(1)
		engine := ai.ForStrategy(strategy, difficulty, c.cfg.Simulations, randutil.New(seed))
		result <- engine.Decide(obs)
	}()

	if c.cfg.DecisionTimeout <= 0 {
		select {
		case d := <-result:
			return d
		case <-ctx.Done():
			return surrenderDecision(obs)
		}
	}

	expired := make(chan struct{})
	timer := c.clock.AfterFunc(c.cfg.DecisionTimeout, func() { close(expired) })
	defer timer.Stop()

	select {
	case d := <-result:
		return d
	case <-expired:
		c.logger.Warn("decision timed out", "strategy", strategy)
		return surrenderDecision(obs)
	case <-ctx.Done():
		return surrenderDecision(obs)
	}
}

// thinkTime draws the pacing delay for one automated action
func (c *Coordinator) thinkTime(s *Session) time.Duration {
	lo, hi := c.cfg.ThinkTimeMin, c.cfg.ThinkTimeMax
	if hi <= 0 || hi < lo {
		return 0
	}
	if hi == lo {
		return lo
	}
	return lo + time.Duration(s.rng.Int63n(int64(hi-lo)))
}

// pause waits for the think delay on the coordinator clock. Returns false
// when the context is cancelled first.
func (c *Coordinator) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	done := make(chan struct{})
	timer := c.clock.AfterFunc(d, func() { close(done) })
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// surrenderDecision checks when free, folds otherwise
func surrenderDecision(obs game.Observation) game.Decision {
	for _, a := range obs.LegalActions {
		if a == game.Check {
			return game.Decision{Action: game.Check}
		}
	}
	return game.Decision{Action: game.Fold}
}
