package probe

import "testing"

func TestTrackerFirstObservation(t *testing.T) {
	var tr Tracker
	c := tr.Observe(5)
	if !c.First {
		t.Error("expected First on initial observation")
	}
	if c.Missing != 0 {
		t.Errorf("missing: got %d, want 0", c.Missing)
	}
	if seq, ok := tr.Last(); !ok || seq != 5 {
		t.Errorf("last: got %d (ok=%v), want 5", seq, ok)
	}
}

func TestTrackerConsecutive(t *testing.T) {
	var tr Tracker
	tr.Observe(1)
	for seq := 2; seq <= 10; seq++ {
		c := tr.Observe(seq)
		if c.First || c.Missing != 0 {
			t.Errorf("seq %d: got %+v, want no gap", seq, c)
		}
	}
}

func TestTrackerGap(t *testing.T) {
	tests := []struct {
		prev, next  int
		wantMissing int
	}{
		{5, 8, 2},
		{1, 3, 1},
		{1, 2, 0},
		{100, 200, 99},
	}
	for _, tt := range tests {
		var tr Tracker
		tr.Observe(tt.prev)
		c := tr.Observe(tt.next)
		if c.Missing != tt.wantMissing {
			t.Errorf("%d then %d: missing got %d, want %d", tt.prev, tt.next, c.Missing, tt.wantMissing)
		}
	}
}

func TestTrackerRebaseline(t *testing.T) {
	var tr Tracker
	tr.Observe(500)

	// Going backwards is a new baseline, not a gap.
	c := tr.Observe(3)
	if c.Missing != 0 || c.First {
		t.Errorf("backwards: got %+v, want zero missing, not first", c)
	}

	// The baseline moved: 3 -> 5 misses exactly one probe.
	c = tr.Observe(5)
	if c.Missing != 1 {
		t.Errorf("after rebaseline: missing got %d, want 1", c.Missing)
	}
}

func TestTrackerRepeatedSequence(t *testing.T) {
	var tr Tracker
	tr.Observe(7)
	c := tr.Observe(7)
	if c.Missing != 0 {
		t.Errorf("duplicate seq: missing got %d, want 0", c.Missing)
	}
}
