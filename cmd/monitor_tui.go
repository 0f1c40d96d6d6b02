// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Thermoquad/lyft/pkg/bekant"
)

// TUI model
type model struct {
	connInfo      string
	statsInterval int
	showAll       bool
	stats         *bekant.Statistics
	samples       <-chan deskSample
	errorLog      []errorLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
	lastSample    *deskSample
	lastGood      time.Time
	failing       bool
}

// Messages
type tickMsg time.Time
type sampleMsg deskSample

func initialModel(connInfo string, statsInterval int, showAll bool, stats *bekant.Statistics, samples <-chan deskSample) model {
	return model{
		connInfo:      connInfo,
		statsInterval: statsInterval,
		showAll:       showAll,
		stats:         stats,
		samples:       samples,
		errorLog:      make([]errorLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForSample(m.samples),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForSample(samples <-chan deskSample) tea.Cmd {
	return func() tea.Msg {
		return sampleMsg(<-samples)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.stats.Reset()
			m.addLogEntry("Statistics cleared", false)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tickCmd()

	case sampleMsg:
		s := deskSample(msg)
		m.lastSample = &s
		m.recordSample(s)
		return m, waitForSample(m.samples)
	}

	return m, nil
}

// recordSample logs failures, and recoveries from them
func (m *model) recordSample(s deskSample) {
	if s.failed() {
		m.failing = true
		for _, err := range []error{s.stateErr, s.posErr} {
			if err != nil {
				m.addLogEntry(err.Error(), true)
			}
		}
		return
	}

	if m.failing && !m.lastGood.IsZero() {
		m.addLogEntry(fmt.Sprintf("Link recovered after %s", s.at.Sub(m.lastGood).Round(time.Millisecond)), false)
	}
	m.failing = false
	m.lastGood = s.at

	if m.showAll {
		m.addLogEntry(fmt.Sprintf("%s position=%d height=%d", s.state, s.position, s.height()), false)
	}
}

func (m *model) addLogEntry(message string, isError bool) {
	entry := errorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.errorLog = append(m.errorLog, entry)

	// Keep only last N entries
	if len(m.errorLog) > m.maxLogEntries {
		m.errorLog = m.errorLog[len(m.errorLog)-m.maxLogEntries:]
	}
}

func (m model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	st := newStyles()

	// Header
	var s strings.Builder
	s.WriteString(st.title.Render("LYFT - DESK MONITOR"))
	s.WriteString("\n")
	mode := "Errors only"
	if m.showAll {
		mode = "All samples"
	}
	s.WriteString(st.header.Render(fmt.Sprintf("%s | Mode: %s | 'c' clear stats | 'q' quit", m.connInfo, mode)))
	s.WriteString("\n\n")

	// Link status
	switch {
	case m.lastSample == nil:
		s.WriteString(st.warning.Render("⏳ Waiting for the desk..."))
	case m.failing:
		s.WriteString(st.error.Render("✗ Link failing"))
	default:
		s.WriteString(st.value.Render("✓ Link healthy"))
	}
	s.WriteString("\n\n")

	// Statistics
	total, successful, failed := m.stats.Totals()
	exRate, errRate := m.stats.Rates()
	b := m.stats.Breakdown()
	var validPercent, errorPercent float64
	if total > 0 {
		validPercent = float64(successful) * 100.0 / float64(total)
		errorPercent = float64(failed) * 100.0 / float64(total)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		st.label.Render("Total:"), st.value.Render(fmt.Sprintf("%d", total)),
		st.label.Render("Valid:"), st.value.Render(fmt.Sprintf("%d (%.1f%%)", successful, validPercent)),
		st.label.Render("Errors:"), errorCount(st, failed)+st.header.Render(fmt.Sprintf(" (%.1f%%)", errorPercent)),
	))
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		st.label.Render("Timeouts:"), errorCount(st, b.Timeouts),
		st.label.Render("Checksum:"), errorCount(st, b.Checksum),
		st.label.Render("Framing:"), errorCount(st, b.Framing),
		st.label.Render("Data:"), errorCount(st, b.Data),
	))
	if b.Desk > 0 || b.Transport > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			st.label.Render("Desk:"), st.warning.Render(fmt.Sprintf("%d", b.Desk)),
			st.label.Render("Transport:"), errorCount(st, b.Transport),
		))
	}
	errRateText := st.value.Render(fmt.Sprintf("%.1f err/s", errRate))
	if errRate > 0 {
		errRateText = st.error.Render(fmt.Sprintf("%.1f err/s", errRate))
	}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
		st.label.Render("Exchange Rate:"), st.value.Render(fmt.Sprintf("%.1f ex/s", exRate)),
		st.label.Render("Error Rate:"), errRateText,
		st.label.Render("Avg Latency:"), st.value.Render(m.stats.AverageLatency().Round(time.Microsecond).String()),
	))

	s.WriteString(st.box.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Desk section (only shown once a sample succeeded)
	if !m.lastGood.IsZero() && m.lastSample != nil {
		last := m.lastSample
		s.WriteString(st.label.Render("Latest Desk Status:"))
		s.WriteString("\n")

		deskContent := strings.Builder{}
		deskContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			st.label.Render("State:"), st.value.Render(last.state.String()),
			st.label.Render("Position:"), st.value.Render(fmt.Sprintf("%d", last.position)),
			st.label.Render("Height:"), st.value.Render(fmt.Sprintf("%d", last.height())),
		))
		deskContent.WriteString(fmt.Sprintf("%s %s",
			st.label.Render("Last good sample:"),
			st.value.Render(formatUptime(uint64(time.Since(m.lastGood).Milliseconds()))+" ago"),
		))

		s.WriteString(st.box.Render(deskContent.String()))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(st.label.Render("Recent Events:"))
	s.WriteString("\n")

	// Calculate how many log entries we can show
	logHeight := m.height - 17 // Reserve space for header and stats
	if logHeight < 5 {
		logHeight = 5
	}

	s.WriteString(st.box.Width(m.width - 4).Render(renderEventLog(st, m.errorLog, logHeight)))

	return s.String()
}
