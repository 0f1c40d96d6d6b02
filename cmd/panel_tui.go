// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/lyft/pkg/bekant"
	"github.com/Thermoquad/lyft/pkg/controller"
	"github.com/Thermoquad/lyft/pkg/panel"
)

// runPanel runs the machine against an emulated panel in the terminal
func runPanel(ctx context.Context, s *session, logs *lineWriter) error {
	p := panel.New()

	m, err := controller.New(controller.Options{
		Desk:        s.link,
		HMI:         p,
		Store:       s.store,
		Settings:    s.settings,
		Indicators:  p,
		ResetButton: p,
		Logger:      s.log.Named("controller"),
		TickPeriod:  s.cfg.Tick.Period(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		controller.Run(ctx, m)
		close(done)
	}()

	model := initialPanelModel(p, m, s.stats, s.connInfo, logs.lines)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = prog.Run()
	interrupted := ctx.Err() != nil
	cancel()
	<-done

	if err != nil && !interrupted {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

// panelKeyMap binds terminal keys to panel buttons. Buttons toggle.
type panelKeyMap struct {
	Button1 key.Binding
	Button2 key.Binding
	Button3 key.Binding
	Button4 key.Binding
	Up      key.Binding
	Down    key.Binding
	Release key.Binding
	Reset   key.Binding
	Wake    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultPanelKeys() panelKeyMap {
	return panelKeyMap{
		Button1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1-4", "memory")),
		Button2: key.NewBinding(key.WithKeys("2")),
		Button3: key.NewBinding(key.WithKeys("3")),
		Button4: key.NewBinding(key.WithKeys("4")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Release: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "release all")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset button")),
		Wake:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "panel interrupt")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k panelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Button1, k.Up, k.Down, k.Release, k.Help, k.Quit}
}

func (k panelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Button1, k.Up, k.Down},
		{k.Release, k.Reset, k.Wake},
		{k.Help, k.Quit},
	}
}

// Messages
type panelChangedMsg struct{}
type panelLogMsg string
type panelTickMsg time.Time

// TUI model
type panelModel struct {
	panel    *panel.Panel
	machine  *controller.Machine
	stats    *bekant.Statistics
	connInfo string
	logs     <-chan string
	started  time.Time

	keys          panelKeyMap
	help          help.Model
	eventLog      []errorLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
}

func initialPanelModel(p *panel.Panel, m *controller.Machine, stats *bekant.Statistics, connInfo string, logs <-chan string) panelModel {
	return panelModel{
		panel:         p,
		machine:       m,
		stats:         stats,
		connInfo:      connInfo,
		logs:          logs,
		started:       time.Now(),
		keys:          defaultPanelKeys(),
		help:          help.New(),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func waitForPanel(p *panel.Panel) tea.Cmd {
	return func() tea.Msg {
		<-p.Changed()
		return panelChangedMsg{}
	}
}

func waitForLog(logs <-chan string) tea.Cmd {
	return func() tea.Msg {
		return panelLogMsg(<-logs)
	}
}

func panelTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return panelTickMsg(t)
	})
}

func (m panelModel) Init() tea.Cmd {
	return tea.Batch(waitForPanel(m.panel), waitForLog(m.logs), panelTickCmd())
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case panelChangedMsg:
		return m, waitForPanel(m.panel)

	case panelLogMsg:
		m.addLogEntry(string(msg))
		return m, waitForLog(m.logs)

	case panelTickMsg:
		return m, panelTickCmd()
	}

	return m, nil
}

func (m panelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buttons := []struct {
		binding key.Binding
		button  controller.Button
	}{
		{m.keys.Button1, controller.Button1},
		{m.keys.Button2, controller.Button2},
		{m.keys.Button3, controller.Button3},
		{m.keys.Button4, controller.Button4},
		{m.keys.Up, controller.ButtonUp},
		{m.keys.Down, controller.ButtonDown},
	}

	for _, b := range buttons {
		if key.Matches(msg, b.binding) {
			m.panel.Toggle(b.button)
			// A key press raises the panel interrupt
			m.machine.Wake()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Release):
		m.panel.ReleaseAll()
	case key.Matches(msg, m.keys.Reset):
		m.panel.ToggleReset()
	case key.Matches(msg, m.keys.Wake):
		m.machine.Wake()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *panelModel) addLogEntry(line string) {
	isError := strings.Contains(line, "[ERROR]") || strings.Contains(line, "[WARN]")
	m.eventLog = append(m.eventLog, errorLogEntry{
		timestamp: time.Now(),
		message:   line,
		isError:   isError,
	})

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m panelModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	st := newStyles()
	view := m.panel.View()
	snap := m.machine.Snapshot()

	var s strings.Builder
	s.WriteString(st.title.Render("LYFT - EMULATED PANEL"))
	s.WriteString("\n")
	s.WriteString(st.header.Render(fmt.Sprintf("%s | Uptime: %s | Press '?' for help",
		m.connInfo, formatUptime(uint64(time.Since(m.started).Milliseconds())))))
	s.WriteString("\n\n")

	// Display and indicators
	display := st.display(view.Brightness).Render(view.String())
	indicators := fmt.Sprintf("%s %s\n%s %s\n%s %s",
		st.label.Render("LED:"), onOff(st, view.LED),
		st.label.Render("Buzzer:"), onOff(st, view.Buzzer),
		st.label.Render("Reset:"), onOff(st, view.Reset),
	)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		st.box.Render(display),
		"  ",
		st.box.Render(indicators),
	))
	s.WriteString("\n\n")

	// Machine state
	state := fmt.Sprintf("%s %s   %s %s   %s %d   %s %s\n%s %d (%d..%d)   %s %d   %s %s",
		st.label.Render("State:"), st.value.Render(snap.State.String()),
		st.label.Render("Keys:"), st.value.Render(view.Keys.String()),
		st.label.Render("Height:"), snap.Height,
		st.label.Render("Unit:"), st.value.Render(string(snap.Settings.DisplayUnit)),
		st.label.Render("Position:"), snap.Position, snap.LowerLimit, snap.UpperLimit,
		st.label.Render("Errors:"), snap.Errors,
		st.label.Render("Presets:"), st.value.Render(formatPresets(snap)),
	)
	s.WriteString(st.box.Render(state))
	s.WriteString("\n\n")

	// Link statistics
	total, successful, failed := m.stats.Totals()
	s.WriteString(st.box.Render(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		st.label.Render("Exchanges:"), st.value.Render(fmt.Sprintf("%d", total)),
		st.label.Render("OK:"), st.value.Render(fmt.Sprintf("%d", successful)),
		st.label.Render("Failed:"), errorCount(st, failed),
		st.label.Render("Avg latency:"), st.value.Render(m.stats.AverageLatency().Round(time.Microsecond).String()),
	)))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(st.label.Render("Recent Events:"))
	s.WriteString("\n")
	logHeight := m.height - 20
	if logHeight < 5 {
		logHeight = 5
	}
	s.WriteString(st.box.Width(m.width - 4).Render(renderEventLog(st, m.eventLog, logHeight)))
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

func formatPresets(snap controller.Snapshot) string {
	parts := make([]string, 0, 4)
	for slot := 1; slot <= 4; slot++ {
		p, _ := snap.Settings.Preset(slot)
		parts = append(parts, fmt.Sprintf("%d:%d", slot, p))
	}
	return strings.Join(parts, " ")
}
