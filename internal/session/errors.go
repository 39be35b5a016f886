package session

import "errors"

// ErrSessionNotFound is returned for operations against an unknown or
// deleted session.
var ErrSessionNotFound = errors.New("session not found")
