package probe

import (
	"strings"
	"testing"
)

var defaultTh = Thresholds{MaxRTTMillis: 500, AllowedSeqGap: 1}

func reply(rtt float64) Outcome {
	return Outcome{Kind: KindReply, Seq: 1, HasSeq: true, RTTMillis: rtt}
}

func TestClassifyLatencyBoundary(t *testing.T) {
	cont := &Continuity{}

	// Exactly at the threshold is not interesting; strictly above is.
	if d := Classify(reply(500), cont, defaultTh); d.Forward {
		t.Error("rtt equal to threshold must not forward")
	}
	d := Classify(reply(500.1), cont, defaultTh)
	if !d.Forward || !d.SlowRTT {
		t.Errorf("rtt above threshold: got %+v, want forwarded on latency", d)
	}
}

func TestClassifyGapBoundary(t *testing.T) {
	th := Thresholds{MaxRTTMillis: 500, AllowedSeqGap: 2}

	if d := Classify(reply(10), &Continuity{Missing: 1}, th); d.Forward {
		t.Error("missing below allowed gap must not forward")
	}
	d := Classify(reply(10), &Continuity{Missing: 2}, th)
	if !d.Forward || !d.Gap {
		t.Errorf("missing at allowed gap: got %+v, want forwarded on gap", d)
	}
}

func TestClassifyFirstObservationNeverGap(t *testing.T) {
	d := Classify(reply(10), &Continuity{First: true}, defaultTh)
	if d.Forward {
		t.Errorf("first observation: got %+v, want not forwarded", d)
	}
}

func TestClassifyErrorAlwaysForwarded(t *testing.T) {
	o := Outcome{Kind: KindError, Seq: 14, HasSeq: true, Message: "Destination Host Unreachable"}
	d := Classify(o, &Continuity{}, Thresholds{MaxRTTMillis: 1e9, AllowedSeqGap: 1 << 20})
	if !d.Forward || !d.Err {
		t.Errorf("error outcome: got %+v, want forwarded", d)
	}
}

func TestClassifyUnrecognizedNeverForwarded(t *testing.T) {
	o := Outcome{Kind: KindUnrecognized, Raw: "PING 8.8.8.8 ..."}
	if d := Classify(o, nil, defaultTh); d.Forward {
		t.Error("unrecognized line must not forward")
	}
}

func TestClassifyDupSuffix(t *testing.T) {
	o := reply(10)
	o.Suffix = "(DUP!)"
	d := Classify(o, &Continuity{}, defaultTh)
	if !d.Forward || !d.Dup {
		t.Errorf("dup reply: got %+v, want forwarded", d)
	}
}

func TestClassifyMultipleTriggers(t *testing.T) {
	d := Classify(reply(900), &Continuity{Missing: 3}, defaultTh)
	if !d.SlowRTT || !d.Gap {
		t.Errorf("got %+v, want both latency and gap triggers", d)
	}
}

func TestRenderPlain(t *testing.T) {
	o := reply(900)
	o.Raw = "[1.0] 64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=900 ms"
	d := Classify(o, &Continuity{}, defaultTh)
	got := Render(o, &Continuity{}, d, "2025-06-01 12:00:00")
	want := "2025-06-01 12:00:00 " + o.Raw
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderGapFragment(t *testing.T) {
	o := reply(10)
	o.Seq = 8
	o.Raw = "[1.0] 64 bytes from 8.8.8.8: icmp_seq=8 ttl=118 time=10 ms"
	cont := &Continuity{Missing: 2}
	d := Classify(o, cont, defaultTh)
	got := Render(o, cont, d, "2025-06-01 12:00:00")
	if !strings.HasSuffix(got, "[missed 2 probe(s) before icmp_seq=8]") {
		t.Errorf("missing gap fragment: %q", got)
	}
	if strings.Count(got, o.Raw) != 1 {
		t.Errorf("raw line must appear exactly once: %q", got)
	}
}
