// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     historyview
// Description: Styles for the history browser TUI
// Author:      Kiran Shivaraju
// Created:     2026-07-21
// License:     MIT
// ============================================================================

package historyview

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2).
			MarginBottom(1)
)

// Entry styles
var (
	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	TranscriptStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	CountsStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorDetailStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusFailedStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)
)

// Panel and bar styles
var (
	ListPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Help styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Filter badge styles
var (
	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)
)

// Logo
const Logo = "voice2code History"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderStatusBadge renders a dictation status badge
func RenderStatusBadge(status string) string {
	switch status {
	case "OK":
		return StatusOKStyle.Render("[OK]    ")
	case "FAILED":
		return StatusFailedStyle.Render("[FAILED]")
	default:
		return CountsStyle.Render("[" + status + "]")
	}
}

// RenderFilterStatus renders a filter toggle indicator
func RenderFilterStatus(name string, active bool) string {
	if active {
		return FilterActiveStyle.Render(name)
	}
	return FilterInactiveStyle.Render(name)
}
