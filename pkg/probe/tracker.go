package probe

// Tracker follows sequence numbers and reports how many probes went
// missing between consecutive observations. It is not safe for
// concurrent use; the processing loop is its only caller.
type Tracker struct {
	last int
	seen bool
}

// Observe records a sequence number and returns the continuity result.
//
// The first observation sets the baseline. A sequence that did not
// advance (out-of-order delivery, or a restarted probe process) becomes
// the new baseline with no missing probes reported.
func (t *Tracker) Observe(seq int) Continuity {
	if !t.seen {
		t.seen = true
		t.last = seq
		return Continuity{First: true}
	}

	missing := seq - t.last - 1
	if missing < 0 {
		missing = 0
	}
	t.last = seq
	return Continuity{Missing: missing}
}

// Last returns the most recently observed sequence number.
func (t *Tracker) Last() (seq int, ok bool) {
	return t.last, t.seen
}
