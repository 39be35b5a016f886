package broadcast

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/liveholdem/internal/game"
)

// Viewer is one attached connection. Send must not block; it reports false
// when the viewer can no longer accept messages and should be dropped.
type Viewer interface {
	Perspective() game.Perspective
	Send(msg Message) bool
}

// Registry tracks the viewers attached to one session and fans snapshots out
// to them.
type Registry struct {
	mu      sync.Mutex
	viewers map[Viewer]struct{}
	logger  *log.Logger
}

// NewRegistry creates an empty viewer registry
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		viewers: make(map[Viewer]struct{}),
		logger:  logger.WithPrefix("broadcast"),
	}
}

// Attach registers a viewer for future broadcasts
func (r *Registry) Attach(v Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewers[v] = struct{}{}
}

// Detach removes a viewer
func (r *Registry) Detach(v Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.viewers, v)
}

// Count returns the number of attached viewers
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

// Broadcast sends a state update to every attached viewer, redacted per
// viewer via the snapshot function. Viewers that cannot accept the message
// are detached.
func (r *Registry) Broadcast(snapshot func(game.Perspective) game.State, events []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for v := range r.viewers {
		state := snapshot(v.Perspective())
		ok := v.Send(Message{
			Type:   TypeStateUpdate,
			State:  &state,
			Events: events,
		})
		if !ok {
			r.logger.Debug("dropping unresponsive viewer")
			delete(r.viewers, v)
		}
	}
}
