// Package model is the Bubble Tea model behind `pingsieve top`: a live
// view of a running filter, fed by status polling and forwarded-line
// events from the control socket.
package model

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/modoterra/pingsieve/pkg/sieve"
	"github.com/modoterra/pingsieve/pkg/transport/uds"
)

const maxRecentLines = 500

// App is the root Bubble Tea model.
type App struct {
	// Connection
	client     *uds.Client
	socketPath string
	connected  bool
	events     chan uds.Message

	// State
	snap     sieve.Snapshot
	haveSnap bool
	recent   []recentLine
	paused   bool

	// UI
	spin      spinner.Model
	width     int
	height    int
	statusMsg string
}

type recentLine struct {
	text      string
	heartbeat bool
}

// New creates the TUI model for the given control socket.
func New(socketPath string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return App{
		socketPath: socketPath,
		events:     make(chan uds.Message, 64),
		spin:       sp,
	}
}

// Init connects to the running filter.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		connectCmd(a.socketPath, a.events),
		a.spin.Tick,
		tea.SetWindowTitle("pingsieve"),
	)
}

// tickMsg triggers a periodic status refresh.
type tickMsg time.Time

// connectedMsg indicates a successful socket connection.
type connectedMsg struct{ client *uds.Client }

// snapMsg carries a fresh status snapshot.
type snapMsg sieve.Snapshot

// evtMsg carries a server-pushed event.
type evtMsg uds.Message

// errorMsg carries an error to display.
type errorMsg struct{ err error }

func connectCmd(socketPath string, events chan uds.Message) tea.Cmd {
	return func() tea.Msg {
		client, err := uds.Dial(socketPath)
		if err != nil {
			return errorMsg{err}
		}
		client.OnEvent(func(msg uds.Message) {
			select {
			case events <- msg:
			default:
			}
		})
		return connectedMsg{client}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func listenCmd(events chan uds.Message) tea.Cmd {
	return func() tea.Msg {
		return evtMsg(<-events)
	}
}

func fetchStatusCmd(client *uds.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, err := client.Request(ctx, uds.MethodStatus, nil)
		if err != nil {
			return errorMsg{err}
		}

		var snap sieve.Snapshot
		if err := resp.UnmarshalData(&snap); err != nil {
			return errorMsg{err}
		}
		return snapMsg(snap)
	}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case connectedMsg:
		a.client = msg.client
		a.connected = true
		a.statusMsg = "connected"
		return a, tea.Batch(tickCmd(), fetchStatusCmd(a.client), listenCmd(a.events))

	case tickMsg:
		if a.client != nil {
			return a, tea.Batch(tickCmd(), fetchStatusCmd(a.client))
		}
		return a, tickCmd()

	case snapMsg:
		a.snap = sieve.Snapshot(msg)
		a.haveSnap = true
		return a, nil

	case evtMsg:
		a.noteEvent(uds.Message(msg))
		return a, listenCmd(a.events)

	case errorMsg:
		a.statusMsg = "error: " + msg.err.Error()
		return a, nil

	case spinner.TickMsg:
		if a.connected {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if a.client != nil {
				a.client.Close()
			}
			return a, tea.Quit
		case "p":
			a.paused = !a.paused
			if a.paused {
				a.statusMsg = "paused"
			} else {
				a.statusMsg = "live"
			}
		}
		return a, nil
	}

	return a, nil
}

func (a *App) noteEvent(msg uds.Message) {
	if a.paused {
		return
	}

	var le uds.LineEvent
	if err := msg.UnmarshalData(&le); err != nil {
		return
	}

	switch msg.Method {
	case uds.EventLineForwarded:
		a.recent = append(a.recent, recentLine{text: le.Line})
	case uds.EventHeartbeat:
		a.recent = append(a.recent, recentLine{text: le.Line, heartbeat: true})
	default:
		return
	}
	if len(a.recent) > maxRecentLines {
		a.recent = a.recent[len(a.recent)-maxRecentLines:]
	}
}
