// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     historyview
// Description: Bubbletea model for browsing dictation history
// Author:      Kiran Shivaraju
// Created:     2026-07-21
// License:     MIT
// ============================================================================

package historyview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kiranshivaraju/voice2code/internal/history"
)

// StatusFilter selects which dictations are shown
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterOK
	FilterFailed
)

// Model is the Bubbletea model for the history browser
type Model struct {
	// State
	width   int
	height  int
	ready   bool
	loading bool
	paused  bool
	err     error

	// Components
	viewport viewport.Model
	spinner  spinner.Model

	// History state
	allEntries []*history.Entry
	filtered   []*history.Entry
	filter     StatusFilter
	search     string

	// Stats
	totalEntries  int64
	failedEntries int64

	// Data source
	store      history.Store
	maxEntries int
}

// Config holds history browser configuration
type Config struct {
	// MaxEntries bounds how many dictations are loaded per refresh
	MaxEntries int

	// Search pre-filters transcripts by substring
	Search string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxEntries: 500,
	}
}

// New creates a history browser over the given store
func New(store history.Store, cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}

	return Model{
		spinner:    sp,
		store:      store,
		maxEntries: cfg.MaxEntries,
		search:     cfg.Search,
		loading:    true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadEntries,
		m.loadStats,
		tea.EnterAltScreen,
		tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return tickMsg(t)
		}),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 4
		viewportHeight := msg.Height - headerHeight - footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.allEntries = msg.entries
			m.applyFilter()
			m.updateViewportContent()
		}

	case statsLoadedMsg:
		if msg.err == nil {
			m.totalEntries = msg.total
			m.failedEntries = msg.failed
		}

	case tickMsg:
		if !m.paused {
			cmds = append(cmds, m.loadEntries, m.loadStats)
		}
		cmds = append(cmds, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return tickMsg(t)
		}))
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit

		// Status filters
		case "1":
			m.filter = FilterAll
			m.applyFilter()
			m.updateViewportContent()
			return m, nil
		case "2":
			m.filter = FilterOK
			m.applyFilter()
			m.updateViewportContent()
			return m, nil
		case "3":
			m.filter = FilterFailed
			m.applyFilter()
			m.updateViewportContent()
			return m, nil

		// Pause/resume the auto refresh
		case "p", " ":
			m.paused = !m.paused
			return m, nil

		// Refresh
		case "r":
			m.loading = true
			return m, tea.Batch(m.loadEntries, m.loadStats)

		// Go to top / bottom
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil

	case tea.KeyUp:
		m.viewport.LineUp(1)
		return m, nil

	case tea.KeyDown:
		m.viewport.LineDown(1)
		return m, nil
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading history..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.renderListArea())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the title panel
func (m Model) renderHeader() string {
	logo := LogoStyle.Render(Logo)

	pauseStatus := ""
	if m.paused {
		pauseStatus = "  " + StatusPausedStyle.Render("PAUSED")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		logo,
		pauseStatus,
	)

	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderFilterBar renders the status filter bar
func (m Model) renderFilterBar() string {
	filters := []string{
		fmt.Sprintf("1:%s", RenderFilterStatus("ALL", m.filter == FilterAll)),
		fmt.Sprintf("2:%s", RenderFilterStatus("OK", m.filter == FilterOK)),
		fmt.Sprintf("3:%s", RenderFilterStatus("FAILED", m.filter == FilterFailed)),
	}

	countStr := HelpDescStyle.Render(fmt.Sprintf("[%d/%d dictations]", len(m.filtered), len(m.allEntries)))

	content := strings.Join(filters, "  ") + "  " + countStr
	if m.search != "" {
		content += "  " + FilterActiveStyle.Render("search:"+m.search)
	}

	return FilterBarStyle.Width(m.width - 2).Render(content)
}

// renderListArea renders the entry viewport
func (m Model) renderListArea() string {
	style := ListPanelStyle.Width(m.width - 2).Height(m.viewport.Height + 2)
	return style.Render(m.viewport.View())
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	leftPart := HelpDescStyle.Render(fmt.Sprintf("Total: %d  Failed: %d", m.totalEntries, m.failedEntries))

	var rightPart string
	if m.loading {
		rightPart = m.spinner.View() + " Loading..."
	} else if m.err != nil {
		rightPart = StatusFailedStyle.Render(truncateString(m.err.Error(), 40))
	} else {
		rightPart = StatusOKStyle.Render("Ready")
	}

	leftLen := lipgloss.Width(leftPart)
	rightLen := lipgloss.Width(rightPart)
	padding := m.width - leftLen - rightLen - 4
	if padding < 2 {
		padding = 2
	}

	content := leftPart + strings.Repeat(" ", padding) + rightPart

	return StatusBarStyle.Width(m.width - 2).Render(content)
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("1-3", "Filter"),
		RenderKeyHint("p", "Pause"),
		RenderKeyHint("r", "Refresh"),
		RenderKeyHint("g/G", "Top/Bottom"),
		RenderKeyHint("q", "Quit"),
	}

	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent rebuilds the viewport from the filtered entries
func (m *Model) updateViewportContent() {
	var content strings.Builder

	for _, entry := range m.filtered {
		timeStr := TimestampStyle.Render(entry.Timestamp.Format("Jan 02 15:04:05"))
		statusStr := RenderStatusBadge(string(entry.Status))
		countsStr := CountsStyle.Render(fmt.Sprintf("%2dseg %2dcmd %5s",
			entry.Segments, entry.Commands, formatDuration(entry.Duration)))
		transcript := TranscriptStyle.Render(entry.Transcript)

		content.WriteString(fmt.Sprintf("%s %s %s  %s\n", timeStr, statusStr, countsStr, transcript))

		if entry.Status == history.StatusFailed && entry.Error != "" {
			content.WriteString("                " + ErrorDetailStyle.Render(truncateString(entry.Error, 100)))
			content.WriteString("\n")
		}
	}

	if len(m.filtered) == 0 {
		content.WriteString(HelpDescStyle.Render("No dictations recorded yet."))
	}

	m.viewport.SetContent(content.String())
}

// applyFilter filters entries by the selected status
func (m *Model) applyFilter() {
	m.filtered = make([]*history.Entry, 0, len(m.allEntries))

	for _, entry := range m.allEntries {
		switch m.filter {
		case FilterOK:
			if entry.Status != history.StatusOK {
				continue
			}
		case FilterFailed:
			if entry.Status != history.StatusFailed {
				continue
			}
		}
		m.filtered = append(m.filtered, entry)
	}
}

// loadEntries loads dictations from the store, newest first
func (m Model) loadEntries() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := m.store.Query(ctx, history.Filter{
		Limit:  m.maxEntries,
		Search: m.search,
	})
	if err != nil {
		return entriesLoadedMsg{err: err}
	}
	return entriesLoadedMsg{entries: entries}
}

// loadStats loads history statistics
func (m Model) loadStats() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		return statsLoadedMsg{err: err}
	}

	msg := statsLoadedMsg{}
	if v, ok := stats["total_entries"].(int64); ok {
		msg.total = v
	}
	if v, ok := stats["failed_entries"].(int64); ok {
		msg.failed = v
	}
	return msg
}

// formatDuration renders an audio duration compactly
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}

// truncateString truncates a string to max length
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "~"
}

// Run starts the history browser TUI
func Run(store history.Store, cfg Config) error {
	p := tea.NewProgram(New(store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
