package sieve

import (
	"fmt"
	"io"
	"time"
)

// Heartbeat emits a synthetic "still alive" line on the secondary
// channel when nothing has been forwarded for a full interval. A
// non-positive interval disables it; Run then returns immediately.
type Heartbeat struct {
	state    *State
	interval time.Duration
	out      io.Writer
	format   string
	clock    Clock

	// notify, when set, is called with each emitted line (socket
	// broadcast).
	notify func(line string)
}

// NewHeartbeat creates a heartbeat monitor over the shared state.
func NewHeartbeat(state *State, interval time.Duration, out io.Writer, format string) *Heartbeat {
	return &Heartbeat{
		state:    state,
		interval: interval,
		out:      out,
		format:   format,
		clock:    RealClock{},
	}
}

// OnEmit registers a callback invoked with every heartbeat line.
func (h *Heartbeat) OnEmit(fn func(line string)) { h.notify = fn }

// Run blocks until done is closed. It waits until one interval has
// elapsed since the last activity, emits, and treats the emission as
// activity itself so heartbeats repeat at the configured cadence.
func (h *Heartbeat) Run(done <-chan struct{}) {
	if h.interval <= 0 {
		return
	}

	timer := time.NewTimer(h.interval)
	defer timer.Stop()

	for {
		select {
		case <-done:
			return
		case <-timer.C:
		}

		now := h.clock.Now()
		deadline := h.state.LastActivity().Add(h.interval)
		if now.Before(deadline) {
			// A forwarded line moved the reference point; wait out
			// the remainder.
			timer.Reset(deadline.Sub(now))
			continue
		}

		h.emit(now)
		h.state.NoteHeartbeat(now)
		timer.Reset(h.interval)
	}
}

func (h *Heartbeat) emit(now time.Time) {
	line := fmt.Sprintf("%s heartbeat: no anomalies in the last %s",
		now.Format(h.format), h.interval)
	fmt.Fprintln(h.out, line)
	if h.notify != nil {
		h.notify(line)
	}
}
