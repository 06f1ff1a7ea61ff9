package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	counterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	heartbeatStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the TUI.
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "loading..."
	}

	if !a.connected {
		return fmt.Sprintf("\n  %s connecting to %s...\n\n  %s\n",
			a.spin.View(), a.socketPath, dimStyle.Render(a.statusMsg))
	}

	countersH := 3
	helpH := 2
	linesH := a.height - countersH - helpH - 4

	counters := paneStyle.Width(a.width - 4).Render(a.renderCounters())
	lines := paneStyle.Width(a.width - 4).Height(linesH).Render(a.renderRecent(linesH))
	help := helpStyle.Render("q quit · p pause/resume") + "  " + dimStyle.Render(a.statusMsg)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(" pingsieve "),
		counters,
		lines,
		help,
	)
}

func (a App) renderCounters() string {
	if !a.haveSnap {
		return dimStyle.Render("waiting for status...")
	}

	sn := a.snap
	lastSeq := "none"
	if sn.HasLastSeq {
		lastSeq = fmt.Sprintf("%d", sn.LastSeq)
	}
	up := sn.TakenAt.Sub(sn.StartedAt).Round(time.Second)

	pairs := []struct{ label, val string }{
		{"up", up.String()},
		{"lines", fmt.Sprintf("%d", sn.LinesSeen)},
		{"forwarded", fmt.Sprintf("%d", sn.Forwarded)},
		{"errors", fmt.Sprintf("%d", sn.Errors)},
		{"gaps", fmt.Sprintf("%d", sn.GapsDetected)},
		{"lost", fmt.Sprintf("%d", sn.GapLost)},
		{"last_seq", lastSeq},
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = labelStyle.Render(p.label+" ") + counterStyle.Render(p.val)
	}
	return strings.Join(parts, "  ")
}

func (a App) renderRecent(h int) string {
	if len(a.recent) == 0 {
		return dimStyle.Render("no interesting lines yet")
	}

	start := 0
	if len(a.recent) > h {
		start = len(a.recent) - h
	}

	var b strings.Builder
	for _, rl := range a.recent[start:] {
		if rl.heartbeat {
			b.WriteString(heartbeatStyle.Render(rl.text))
		} else {
			b.WriteString(rl.text)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
