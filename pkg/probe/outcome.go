package probe

import "time"

// Kind classifies the result of parsing one probe line.
type Kind int

const (
	// KindReply is a successful round trip carrying a latency.
	KindReply Kind = iota
	// KindError is a probe-reported failure (unreachable, filtered, timeout).
	KindError
	// KindUnrecognized is a line outside the probe dialect. It carries no
	// sequence information and is never forwarded.
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindReply:
		return "reply"
	case KindError:
		return "error"
	default:
		return "unrecognized"
	}
}

// Outcome is the structured result of parsing one raw probe line.
type Outcome struct {
	Kind Kind

	// Seq is valid only when HasSeq is true.
	Seq    int
	HasSeq bool

	// RTTMillis is the round-trip time for a reply.
	RTTMillis float64

	// Suffix is a trailing reply marker such as "(DUP!)", empty otherwise.
	Suffix string

	// Message is the probe's own failure text for an error outcome.
	Message string

	// Raw is the input line without its trailing newline.
	Raw string

	// CapturedAt is the moment the line arrived here, not the timestamp
	// embedded by the probe.
	CapturedAt time.Time
}

// Continuity is the result of observing one sequence number.
type Continuity struct {
	// Missing counts the sequence values strictly between the previous
	// and the current observation.
	Missing int
	// First is set for the first sequence ever observed.
	First bool
}
