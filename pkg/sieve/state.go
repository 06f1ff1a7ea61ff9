package sieve

import (
	"fmt"
	"sync"
	"time"
)

// State holds the running counters shared between the processing loop,
// the heartbeat monitor, and the status paths. The loop is the only
// writer apart from the heartbeat emission, which touches the activity
// timestamp. All methods take the lock for a bounded counter update, so
// readers never stall the loop.
type State struct {
	mu sync.RWMutex

	startedAt       time.Time
	lastForwardedAt time.Time
	hasForwarded    bool

	lastSeq    int
	hasLastSeq bool

	linesSeen    uint64
	forwarded    uint64
	errors       uint64
	gapsDetected uint64
	gapLost      uint64
}

// NewState creates a State with zero counters and startedAt = now.
func NewState(now time.Time) *State {
	return &State{startedAt: now}
}

// NoteLine counts one input line of any kind.
func (s *State) NoteLine() {
	s.mu.Lock()
	s.linesSeen++
	s.mu.Unlock()
}

// NoteSequence records the most recent sequence number and any gap that
// preceded it.
func (s *State) NoteSequence(seq, missing int) {
	s.mu.Lock()
	s.lastSeq = seq
	s.hasLastSeq = true
	if missing > 0 {
		s.gapsDetected++
		s.gapLost += uint64(missing)
	}
	s.mu.Unlock()
}

// NoteError counts one probe-reported error.
func (s *State) NoteError() {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
}

// NoteForwarded counts one forwarded line and resets the heartbeat
// reference point.
func (s *State) NoteForwarded(now time.Time) {
	s.mu.Lock()
	s.forwarded++
	s.lastForwardedAt = now
	s.hasForwarded = true
	s.mu.Unlock()
}

// NoteHeartbeat resets the heartbeat reference point without counting a
// forwarded line. The heartbeat monitor calls this on emission.
func (s *State) NoteHeartbeat(now time.Time) {
	s.mu.Lock()
	s.lastForwardedAt = now
	s.hasForwarded = true
	s.mu.Unlock()
}

// LastActivity returns the reference point for heartbeat timing: the
// last forwarded output, or the start time if nothing was forwarded yet.
func (s *State) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hasForwarded {
		return s.lastForwardedAt
	}
	return s.startedAt
}

// Snapshot is a consistent point-in-time copy of the running state.
type Snapshot struct {
	StartedAt    time.Time `json:"started_at"`
	TakenAt      time.Time `json:"taken_at"`
	LinesSeen    uint64    `json:"lines_seen"`
	Forwarded    uint64    `json:"forwarded"`
	Errors       uint64    `json:"errors"`
	GapsDetected uint64    `json:"gaps_detected"`
	GapLost      uint64    `json:"gap_probes_lost"`
	LastSeq      int       `json:"last_seq"`
	HasLastSeq   bool      `json:"has_last_seq"`
}

// Snapshot copies the full state under the lock. Safe to call from any
// goroutine at any time.
func (s *State) Snapshot(now time.Time) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		StartedAt:    s.startedAt,
		TakenAt:      now,
		LinesSeen:    s.linesSeen,
		Forwarded:    s.forwarded,
		Errors:       s.errors,
		GapsDetected: s.gapsDetected,
		GapLost:      s.gapLost,
		LastSeq:      s.lastSeq,
		HasLastSeq:   s.hasLastSeq,
	}
}

// String renders the one-line status form written to the secondary
// channel.
func (sn Snapshot) String() string {
	lastSeq := "none"
	if sn.HasLastSeq {
		lastSeq = fmt.Sprintf("%d", sn.LastSeq)
	}
	up := sn.TakenAt.Sub(sn.StartedAt).Round(time.Second)
	return fmt.Sprintf("status: up %s lines=%d forwarded=%d errors=%d gaps=%d lost=%d last_seq=%s",
		up, sn.LinesSeen, sn.Forwarded, sn.Errors, sn.GapsDetected, sn.GapLost, lastSeq)
}
