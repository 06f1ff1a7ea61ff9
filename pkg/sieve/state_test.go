package sieve

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStateSnapshotCounters(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewState(start)

	for i := 0; i < 10; i++ {
		s.NoteLine()
	}
	s.NoteSequence(5, 0)
	s.NoteSequence(8, 2)
	s.NoteError()
	s.NoteForwarded(start.Add(time.Second))

	sn := s.Snapshot(start.Add(2 * time.Second))
	if sn.LinesSeen != 10 {
		t.Errorf("lines: got %d, want 10", sn.LinesSeen)
	}
	if sn.Forwarded != 1 {
		t.Errorf("forwarded: got %d, want 1", sn.Forwarded)
	}
	if sn.Errors != 1 {
		t.Errorf("errors: got %d, want 1", sn.Errors)
	}
	if sn.GapsDetected != 1 || sn.GapLost != 2 {
		t.Errorf("gaps: got %d/%d, want 1/2", sn.GapsDetected, sn.GapLost)
	}
	if !sn.HasLastSeq || sn.LastSeq != 8 {
		t.Errorf("last seq: got %d (has=%v), want 8", sn.LastSeq, sn.HasLastSeq)
	}
}

func TestStateLastActivityFallsBackToStart(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewState(start)

	if got := s.LastActivity(); !got.Equal(start) {
		t.Errorf("got %v, want start time", got)
	}

	fwd := start.Add(time.Minute)
	s.NoteForwarded(fwd)
	if got := s.LastActivity(); !got.Equal(fwd) {
		t.Errorf("got %v, want forward time", got)
	}

	hb := fwd.Add(time.Minute)
	s.NoteHeartbeat(hb)
	if got := s.LastActivity(); !got.Equal(hb) {
		t.Errorf("got %v, want heartbeat time", got)
	}
}

func TestSnapshotString(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewState(start)

	sn := s.Snapshot(start.Add(90 * time.Second))
	if !strings.Contains(sn.String(), "last_seq=none") {
		t.Errorf("expected none marker before first sequence: %q", sn.String())
	}

	s.NoteSequence(42, 0)
	sn = s.Snapshot(start.Add(90 * time.Second))
	want := "status: up 1m30s lines=0 forwarded=0 errors=0 gaps=0 lost=0 last_seq=42"
	if sn.String() != want {
		t.Errorf("got %q, want %q", sn.String(), want)
	}
}

func TestStateConcurrentSnapshot(t *testing.T) {
	s := NewState(time.Now())

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.NoteLine()
			s.NoteSequence(i, 0)
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				sn := s.Snapshot(time.Now())
				if sn.LinesSeen > 1000 {
					t.Errorf("counter overshot: %d", sn.LinesSeen)
					return
				}
			}
		}
	}()

	wg.Wait()
	sn := s.Snapshot(time.Now())
	if sn.LinesSeen != 1000 {
		t.Errorf("final lines: got %d, want 1000", sn.LinesSeen)
	}
}
