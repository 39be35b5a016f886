package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/semaphore"

	"github.com/lox/liveholdem/internal/broadcast"
	"github.com/lox/liveholdem/internal/game"
	"github.com/lox/liveholdem/internal/gameid"
	"github.com/lox/liveholdem/internal/randutil"
)

// Coordinator runs every session: it creates and deletes tables, applies
// player operations under the per-session lock, drives the lobby countdown,
// and chains automated turns after each action.
type Coordinator struct {
	cfg    Config
	store  *Store
	clock  quartz.Clock
	logger *log.Logger
	ids    *gameid.Generator

	// Bounded pool for decision computations across all sessions
	decisionSem *semaphore.Weighted

	// Root randomness; each session derives its own stream
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewCoordinator creates a coordinator. The clock is injected so the lobby
// countdown and decision pacing are controllable under test.
func NewCoordinator(cfg Config, logger *log.Logger, clock quartz.Clock) *Coordinator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.MaxAutomatedTurns <= 0 {
		cfg.MaxAutomatedTurns = DefaultConfig().MaxAutomatedTurns
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Coordinator{
		cfg:         cfg,
		store:       NewStore(),
		clock:       clock,
		logger:      logger.WithPrefix("session"),
		ids:         gameid.NewGenerator(nil),
		decisionSem: semaphore.NewWeighted(cfg.Workers),
		rng:         randutil.New(seed),
	}
}

// Store exposes the session index
func (c *Coordinator) Store() *Store {
	return c.store
}

// deriveSeed produces a fresh seed from the root stream
func (c *Coordinator) deriveSeed() int64 {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Int63()
}

// CreateSession creates a new table with the given players pre-seated from
// seat zero and returns its spectator snapshot. A positive seatCount
// overrides the configured table size for this session.
func (c *Coordinator) CreateSession(names []string, seatCount int) (string, game.State) {
	id := c.ids.Generate()
	rng := randutil.New(c.deriveSeed())

	tableCfg := c.cfg.Table
	if seatCount > 0 {
		tableCfg.SeatCount = seatCount
	}

	s := &Session{
		ID:       id,
		game:     game.New(id, names, tableCfg, rng),
		rng:      rng,
		registry: broadcast.NewRegistry(c.logger),
		logger:   c.logger.With("game_id", id),
	}
	c.store.Put(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	c.maybeStartCountdownLocked(s)
	s.logger.Info("session created", "players", len(names))
	return id, s.game.StateFor(game.SpectatorView())
}

// Session returns the session with the given ID
func (c *Coordinator) Session(id string) (*Session, error) {
	s, ok := c.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// State returns a snapshot redacted for the given perspective
func (c *Coordinator) State(id string, view game.Perspective) (game.State, error) {
	s, err := c.Session(id)
	if err != nil {
		return game.State{}, err
	}
	return s.Snapshot(view), nil
}

// JoinSeat seats a human player. Any seat change restarts the lobby
// countdown from its full duration.
func (c *Coordinator) JoinSeat(id string, seat int, name string) (game.State, error) {
	return c.mutate(id, func(s *Session) error {
		if err := s.game.JoinSeat(seat, name); err != nil {
			return err
		}
		s.logger.Info("player joined", "seat", seat, "name", name)
		c.restartCountdownLocked(s)
		s.broadcastLocked(fmt.Sprintf("%s joined seat %d", name, seat))
		return nil
	})
}

// LeaveSeat vacates a seat. The countdown restarts from its full duration,
// or cancels outright if the table drops below its start minimum.
func (c *Coordinator) LeaveSeat(id string, seat int) (game.State, error) {
	return c.mutate(id, func(s *Session) error {
		name := s.game.Players[seat].Name
		if err := s.game.LeaveSeat(seat); err != nil {
			return err
		}
		s.logger.Info("player left", "seat", seat, "name", name)
		hadCountdown := s.countdownTimer != nil
		c.restartCountdownLocked(s)
		if hadCountdown && s.countdownTimer == nil {
			s.broadcastLocked("start cancelled, waiting for players")
		} else {
			s.broadcastLocked(fmt.Sprintf("%s left seat %d", name, seat))
		}
		return nil
	})
}

// AddAutomatedPlayer seats an automated player
func (c *Coordinator) AddAutomatedPlayer(id string, seat int, name, strategy, difficulty string) (game.State, error) {
	return c.mutate(id, func(s *Session) error {
		if err := s.game.AddAutomatedPlayer(seat, name, strategy, difficulty); err != nil {
			return err
		}
		s.logger.Info("automated player joined", "seat", seat, "name", name, "strategy", strategy)
		c.restartCountdownLocked(s)
		s.broadcastLocked(fmt.Sprintf("%s joined seat %d", name, seat))
		return nil
	})
}

// StartHand deals a new hand immediately and lets any automated seats act
// until a human is up or the hand resolves.
func (c *Coordinator) StartHand(ctx context.Context, id string) ([]string, game.State, error) {
	s, err := c.Session(id)
	if err != nil {
		return nil, game.State{}, err
	}

	s.mu.Lock()
	if err := s.game.StartHand(); err != nil {
		s.mu.Unlock()
		return nil, game.State{}, err
	}
	s.stopCountdownLocked()
	s.logger.Info("hand started", "players", s.game.FundedCount())
	events := []string{"new hand dealt"}
	s.broadcastLocked(events...)
	s.mu.Unlock()

	events = append(events, c.runAutomatedTurns(ctx, s, s.game)...)
	return events, s.Snapshot(game.SpectatorView()), nil
}

// SubmitAction applies one human action, then chains automated turns until a
// human is up again or the hand resolves. The returned events describe every
// action taken, the human's first.
func (c *Coordinator) SubmitAction(ctx context.Context, id string, seat int, action game.Action, amount int) ([]string, game.State, error) {
	s, err := c.Session(id)
	if err != nil {
		return nil, game.State{}, err
	}

	s.mu.Lock()
	name := ""
	if seat >= 0 && seat < len(s.game.Players) {
		name = s.game.Players[seat].Name
	}
	if err := s.game.ExecuteAction(seat, action, amount); err != nil {
		s.mu.Unlock()
		return nil, game.State{}, err
	}
	events := []string{describeAction(name, game.Decision{Action: action, Amount: amount})}
	s.logger.Debug("action applied", "seat", seat, "action", action.String(), "amount", amount)
	s.broadcastLocked(events...)
	s.mu.Unlock()

	events = append(events, c.runAutomatedTurns(ctx, s, s.game)...)
	return events, s.Snapshot(game.SpectatorView()), nil
}

// DeleteSession tears a session down. Attached viewers receive no further
// messages and release their seats when their sockets close.
func (c *Coordinator) DeleteSession(id string) error {
	s, ok := c.store.Delete(id)
	if !ok {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	s.stopCountdownLocked()
	s.mu.Unlock()
	s.logger.Info("session deleted")
	return nil
}

// mutate runs fn under the session lock and returns the resulting spectator
// snapshot. Errors from fn pass through with no snapshot.
func (c *Coordinator) mutate(id string, fn func(*Session) error) (game.State, error) {
	s, err := c.Session(id)
	if err != nil {
		return game.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s); err != nil {
		return game.State{}, err
	}
	return s.game.StateFor(game.SpectatorView()), nil
}

// describeAction renders an action as a viewer-facing event string
func describeAction(name string, d game.Decision) string {
	switch d.Action {
	case game.Raise:
		return fmt.Sprintf("%s raises %d", name, d.Amount)
	default:
		return fmt.Sprintf("%s %ss", name, d.Action)
	}
}
