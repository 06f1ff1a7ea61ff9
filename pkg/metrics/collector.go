// Package metrics exposes the running counters to Prometheus. The
// collector reads a snapshot on every scrape, so the scrape path shares
// the same consistency guarantee as the status channel.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/modoterra/pingsieve/pkg/sieve"
)

// Collector turns State snapshots into const metrics on scrape.
type Collector struct {
	state *sieve.State

	linesSeen    *prometheus.Desc
	forwarded    *prometheus.Desc
	errors       *prometheus.Desc
	gapsDetected *prometheus.Desc
	gapLost      *prometheus.Desc
	lastSeq      *prometheus.Desc
	uptime       *prometheus.Desc
}

// NewCollector creates a collector over the shared state.
func NewCollector(state *sieve.State) *Collector {
	return &Collector{
		state: state,
		linesSeen: prometheus.NewDesc("pingsieve_lines_seen_total",
			"Input lines processed, of any kind.", nil, nil),
		forwarded: prometheus.NewDesc("pingsieve_forwarded_total",
			"Lines forwarded to the primary channel.", nil, nil),
		errors: prometheus.NewDesc("pingsieve_probe_errors_total",
			"Probe-reported errors seen.", nil, nil),
		gapsDetected: prometheus.NewDesc("pingsieve_gaps_total",
			"Sequence gaps detected.", nil, nil),
		gapLost: prometheus.NewDesc("pingsieve_gap_probes_lost_total",
			"Probes lost inside detected gaps.", nil, nil),
		lastSeq: prometheus.NewDesc("pingsieve_last_sequence",
			"Most recent sequence number observed.", nil, nil),
		uptime: prometheus.NewDesc("pingsieve_uptime_seconds",
			"Seconds since the filter started.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.linesSeen
	ch <- c.forwarded
	ch <- c.errors
	ch <- c.gapsDetected
	ch <- c.gapLost
	ch <- c.lastSeq
	ch <- c.uptime
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	now := time.Now()
	sn := c.state.Snapshot(now)

	ch <- prometheus.MustNewConstMetric(c.linesSeen, prometheus.CounterValue, float64(sn.LinesSeen))
	ch <- prometheus.MustNewConstMetric(c.forwarded, prometheus.CounterValue, float64(sn.Forwarded))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(sn.Errors))
	ch <- prometheus.MustNewConstMetric(c.gapsDetected, prometheus.CounterValue, float64(sn.GapsDetected))
	ch <- prometheus.MustNewConstMetric(c.gapLost, prometheus.CounterValue, float64(sn.GapLost))
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.GaugeValue, now.Sub(sn.StartedAt).Seconds())
	if sn.HasLastSeq {
		ch <- prometheus.MustNewConstMetric(c.lastSeq, prometheus.GaugeValue, float64(sn.LastSeq))
	}
}
