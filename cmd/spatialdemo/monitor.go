// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	spatial "github.com/ik5/spatial"
	"github.com/ik5/spatial/device/soft"
	"github.com/ik5/spatial/output"
)

const pollInterval = 100 * time.Millisecond

// controls is what the monitor drives besides the engine.
type controls interface {
	SetVolume(level int)
	SetMuted(muted bool)
}

var _ controls = (*output.Oto)(nil)

type monitor struct {
	demo *demo
	out  controls

	stats   spatial.Stats
	sources []soft.SourceStatus
	volume  int
	muted   bool
	width   int

	quitting bool
}

type statusMsg struct {
	stats   spatial.Stats
	sources []soft.SourceStatus
}

func newMonitor(d *demo, out controls) monitor {
	return monitor{demo: d, out: out, volume: 100}
}

func (m monitor) poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return statusMsg{stats: m.demo.engine.Stats(), sources: m.demo.device.Status()}
	})
}

func (m monitor) Init() tea.Cmd {
	return m.poll()
}

func (m monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case statusMsg:
		m.stats = msg.stats
		m.sources = msg.sources
		return m, m.poll()
	}

	return m, nil
}

func (m monitor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.volume = min(100, m.volume+5)
		m.out.SetVolume(m.volume)
	case "down", "j":
		m.volume = max(0, m.volume-5)
		m.out.SetVolume(m.volume)
	case "m":
		m.muted = !m.muted
		m.out.SetMuted(m.muted)
	case " ", "space", "p":
		m.demo.togglePause()
	}

	return m, nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

func (m monitor) View() string {
	if m.quitting {
		return "Stopping...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Spatial Audio Demo"))
	b.WriteString("\n\n")

	field := func(name, value string) {
		b.WriteString(headerStyle.Render(name + ": "))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	field("Clip", m.demo.clip)
	field("Sounds", fmt.Sprintf("%d (%d playing, %d paused)", m.stats.Sounds, m.stats.Playing, m.stats.Paused))
	field("Buffers", fmt.Sprintf("%d", m.stats.Buffers))
	field("Effects", fmt.Sprintf("%d", m.stats.Effects))
	field("Listener", fmt.Sprintf("%t", m.stats.Listener))

	vol := fmt.Sprintf("%s %d%%", renderBar(m.volume, 100, 20), m.volume)
	if m.muted {
		vol += " (muted)"
	}
	field("Volume", vol)

	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Sources (%d)", len(m.sources))))
	b.WriteString("\n")
	if len(m.sources) == 0 {
		b.WriteString(valueStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, s := range m.sources {
		fmt.Fprintf(&b, "  %s %s\n", s.ID, valueStyle.Render(fmt.Sprintf(
			"%-7s gain %.2f pos (%.1f, %.1f, %.1f) %s",
			s.State, s.Gain, s.Position.X(), s.Position.Y(), s.Position.Z(),
			renderBar(int(s.Progress*100), 100, 10))))
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("space: pause/play  up/down: volume  m: mute  q: quit"))

	return b.String()
}

func renderBar(value, total, width int) string {
	filled := min(width, max(0, value*width/total))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
