// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     clipboard
// Description: Text clipboard access shared by the execution engine
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package clipboard

import (
	atotto "github.com/atotto/clipboard"
)

// Clipboard provides text clipboard access. Only the text flavor is used;
// images and file lists are out of scope.
type Clipboard interface {
	// ReadText returns the clipboard's current text content
	ReadText() (string, error)

	// WriteText replaces the clipboard's text content
	WriteText(text string) error
}

// System is the real OS clipboard
type System struct{}

// NewSystem creates a clipboard backed by the operating system
func NewSystem() *System {
	return &System{}
}

// ReadText returns the system clipboard's text content
func (s *System) ReadText() (string, error) {
	return atotto.ReadAll()
}

// WriteText replaces the system clipboard's text content
func (s *System) WriteText(text string) error {
	return atotto.WriteAll(text)
}
