package game

import "errors"

// Validation errors are rejected synchronously and never mutate state.
var (
	ErrWrongStage       = errors.New("operation not valid in current stage")
	ErrSeatOutOfRange   = errors.New("seat index out of range")
	ErrSeatTaken        = errors.New("seat already taken")
	ErrSeatEmpty        = errors.New("seat is empty")
	ErrNotYourTurn      = errors.New("not this seat's turn to act")
	ErrCannotCheck      = errors.New("cannot check facing a bet")
	ErrRaiseTooSmall    = errors.New("raise below minimum")
	ErrUnknownAction    = errors.New("unknown action")
	ErrNotEnoughPlayers = errors.New("not enough seated players")
	ErrHandInProgress   = errors.New("hand already in progress")
)

// ErrDeckExhausted indicates an internal invariant breach: the deck ran out
// mid-hand. The affected game is unrecoverable; other sessions are unaffected.
var ErrDeckExhausted = errors.New("deck exhausted mid-hand")
