// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     historyview
// Description: Message types for async operations in the history browser
// Author:      Kiran Shivaraju
// Created:     2026-07-21
// License:     MIT
// ============================================================================

package historyview

import (
	"time"

	"github.com/kiranshivaraju/voice2code/internal/history"
)

// Message types for tea.Cmd async operations

// entriesLoadedMsg is sent when dictation entries are loaded from the store
type entriesLoadedMsg struct {
	entries []*history.Entry
	err     error
}

// statsLoadedMsg is sent when history statistics are loaded
type statsLoadedMsg struct {
	total  int64
	failed int64
	err    error
}

// tickMsg drives the periodic refresh
type tickMsg time.Time
