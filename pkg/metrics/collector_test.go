package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/modoterra/pingsieve/pkg/sieve"
)

func gather(t *testing.T, state *sieve.State) map[string]float64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(state)); err != nil {
		t.Fatal(err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				got[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				got[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return got
}

func TestCollectorValues(t *testing.T) {
	state := sieve.NewState(time.Now())
	state.NoteLine()
	state.NoteLine()
	state.NoteSequence(5, 0)
	state.NoteSequence(8, 2)
	state.NoteError()
	state.NoteForwarded(time.Now())

	got := gather(t, state)
	want := map[string]float64{
		"pingsieve_lines_seen_total":      2,
		"pingsieve_forwarded_total":       1,
		"pingsieve_probe_errors_total":    1,
		"pingsieve_gaps_total":            1,
		"pingsieve_gap_probes_lost_total": 2,
		"pingsieve_last_sequence":         8,
	}
	for name, val := range want {
		if got[name] != val {
			t.Errorf("%s: got %g, want %g", name, got[name], val)
		}
	}
}

func TestCollectorOmitsLastSeqBeforeFirstProbe(t *testing.T) {
	got := gather(t, sieve.NewState(time.Now()))
	if _, ok := got["pingsieve_last_sequence"]; ok {
		t.Error("last_sequence must be absent before the first probe")
	}
	if _, ok := got["pingsieve_uptime_seconds"]; !ok {
		t.Error("uptime gauge missing")
	}
}
