package sieve

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/modoterra/pingsieve/pkg/probe"
)

// Processor drives the main loop: one line at a time through
// parse -> continuity -> classify, forwarding interesting lines to the
// primary sink. Lines are handled strictly in order; the current line is
// fully processed before the next one is read.
type Processor struct {
	thresholds probe.Thresholds
	format     string
	state      *State
	tracker    probe.Tracker
	primary    io.Writer
	clock      Clock
	logger     *slog.Logger

	// notify, when set, receives every forwarded line (socket
	// broadcast). It must not block.
	notify func(line string)
}

// NewProcessor wires a processor over the shared state. primary receives
// forwarded lines; format is the Go layout for the line prefix.
func NewProcessor(state *State, th probe.Thresholds, format string, primary io.Writer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		thresholds: th,
		format:     format,
		state:      state,
		primary:    primary,
		clock:      RealClock{},
		logger:     logger,
	}
}

// OnForward registers a callback invoked with every forwarded line.
func (p *Processor) OnForward(fn func(line string)) { p.notify = fn }

// Run consumes lines until the channel closes (end of input) or ctx is
// cancelled. The line in flight is always finished first. Only a primary
// sink write failure is returned as an error; malformed input never is.
func (p *Processor) Run(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				p.logger.Info("input exhausted")
				return nil
			}
			if err := p.Process(line); err != nil {
				return err
			}
		}
	}
}

// Process handles a single raw line.
func (p *Processor) Process(raw string) error {
	now := p.clock.Now()
	o := probe.Parse(raw, now)
	p.state.NoteLine()

	var cont *probe.Continuity
	if o.HasSeq {
		c := p.tracker.Observe(o.Seq)
		cont = &c
		p.state.NoteSequence(o.Seq, c.Missing)
	}
	if o.Kind == probe.KindError {
		p.state.NoteError()
	}

	d := probe.Classify(o, cont, p.thresholds)
	if !d.Forward {
		return nil
	}

	line := probe.Render(o, cont, d, now.Format(p.format))
	if _, err := fmt.Fprintln(p.primary, line); err != nil {
		return fmt.Errorf("write primary sink: %w", err)
	}
	p.state.NoteForwarded(now)
	if p.notify != nil {
		p.notify(line)
	}
	return nil
}
