// Package flight tracks the lifecycle of a single user-triggered request.
//
// A Guard allows at most one operation in flight. A second Begin while busy
// is rejected with ErrBusy rather than queued. Every operation gets its own
// cancellable context and a Ticket; completions carrying an outdated Ticket
// are reported as stale so callers can drop them.
package flight

import (
	"context"
	"errors"
	"sync"
)

type State int

const (
	Idle State = iota
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrBusy  = errors.New("operation already in flight")
	ErrStale = errors.New("operation is no longer current")
)

// Ticket identifies one issued operation.
type Ticket struct {
	id uint64
}

// Guard is the zero-value-ready state machine for one kind of operation.
type Guard struct {
	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
}

// Begin moves the guard to InFlight and returns the context the operation
// must run under.
func (g *Guard) Begin(parent context.Context) (context.Context, Ticket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == InFlight {
		return nil, Ticket{}, ErrBusy
	}

	ctx, cancel := context.WithCancel(parent)
	g.seq++
	g.state = InFlight
	g.cancel = cancel
	return ctx, Ticket{id: g.seq}, nil
}

// Finish records the outcome of the operation identified by t. It returns
// ErrStale if t was cancelled or superseded.
func (g *Guard) Finish(t Ticket, failed bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != InFlight || t.id != g.seq {
		return ErrStale
	}

	g.cancel()
	g.cancel = nil
	if failed {
		g.state = Failed
	} else {
		g.state = Succeeded
	}
	return nil
}

// Current reports whether t identifies the operation in flight.
func (g *Guard) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == InFlight && t.id == g.seq
}

// Cancel abandons the in-flight operation, if any, and returns to Idle.
func (g *Guard) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != InFlight {
		return false
	}

	g.cancel()
	g.cancel = nil
	g.seq++
	g.state = Idle
	return true
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) Busy() bool {
	return g.State() == InFlight
}
