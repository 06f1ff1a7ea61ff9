package probe

import "fmt"

// Thresholds hold the forwarding limits.
type Thresholds struct {
	// MaxRTTMillis forwards replies strictly above this latency.
	MaxRTTMillis float64
	// AllowedSeqGap forwards replies whose missing-probe count reaches
	// this value.
	AllowedSeqGap int
}

// Decision is the classifier verdict for one outcome.
type Decision struct {
	Forward bool

	// Trigger flags; several can hold for the same line.
	SlowRTT bool
	Gap     bool
	Dup     bool
	Err     bool
}

// Classify decides whether an outcome should be forwarded. cont may be
// nil for outcomes without a sequence number.
func Classify(o Outcome, cont *Continuity, th Thresholds) Decision {
	var d Decision

	switch o.Kind {
	case KindError:
		d.Err = true
		d.Forward = true
	case KindReply:
		if o.RTTMillis > th.MaxRTTMillis {
			d.SlowRTT = true
			d.Forward = true
		}
		if o.Suffix != "" {
			d.Dup = true
			d.Forward = true
		}
		if cont != nil && !cont.First && cont.Missing >= th.AllowedSeqGap {
			d.Gap = true
			d.Forward = true
		}
	}
	return d
}

// Render produces the single forwarded line: the processing-time prefix,
// the original raw line, and a gap fragment when a gap triggered.
func Render(o Outcome, cont *Continuity, d Decision, stamp string) string {
	line := stamp + " " + o.Raw
	if d.Gap && cont != nil {
		line += fmt.Sprintf(" [missed %d probe(s) before icmp_seq=%d]", cont.Missing, o.Seq)
	}
	return line
}
