package probe

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The dialect is the output of `ping -D x.x.x.x`:
//
//	[1597166438.798339] 64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=14.2 ms
//	[1597245144.447473] 64 bytes from 8.8.8.8: icmp_seq=877 ttl=118 time=244 ms (DUP!)
//	[1597500391.382726] From x.x.x.x icmp_seq=13317 Destination Host Unreachable
//
// The leading epoch stamp comes from -D; the PING header line has neither
// stamp nor sequence.
var (
	reStamp = regexp.MustCompile(`^\[[0-9]+(?:\.[0-9]+)?\]\s+(.*)$`)
	reSeq   = regexp.MustCompile(`\bicmp_seq=([0-9]+)`)
	reTime  = regexp.MustCompile(`\btime=([0-9]+(?:\.[0-9]+)?)\s*ms`)
)

// Parse converts one raw line into an Outcome. It never fails: anything
// outside the dialect becomes KindUnrecognized.
func Parse(raw string, now time.Time) Outcome {
	line := strings.TrimRight(raw, "\r\n")
	o := Outcome{Kind: KindUnrecognized, Raw: line, CapturedAt: now}

	m := reStamp.FindStringSubmatch(line)
	if m == nil {
		return o
	}
	body := m[1]

	sm := reSeq.FindStringSubmatch(body)
	if sm == nil {
		return o
	}
	seq, err := strconv.Atoi(sm[1])
	if err != nil {
		// Digits beyond int range; treat as unparseable.
		return o
	}
	o.Seq = seq
	o.HasSeq = true

	tm := reTime.FindStringSubmatchIndex(body)
	if tm == nil {
		// A sequence without a latency is the probe reporting a failure.
		o.Kind = KindError
		o.Message = body
		return o
	}

	rtt, err := strconv.ParseFloat(body[tm[2]:tm[3]], 64)
	if err != nil {
		o.Kind = KindError
		o.Message = body
		return o
	}

	o.Kind = KindReply
	o.RTTMillis = rtt
	o.Suffix = strings.TrimSpace(body[tm[1]:])
	return o
}
