// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     clipboard
// Description: In-memory clipboard for tests and headless operation
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package clipboard

import (
	"sync"
)

// Memory is an in-process clipboard. It records read and write counts so
// tests can assert the engine's strict clipboard access ordering.
type Memory struct {
	mu       sync.Mutex
	text     string
	reads    int
	writes   int
	history  []string
	readErr  error
	writeErr error
}

// NewMemory creates an in-memory clipboard with the given initial content
func NewMemory(initial string) *Memory {
	return &Memory{text: initial}
}

// ReadText returns the current content
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.text, nil
}

// WriteText replaces the current content
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	m.text = text
	m.history = append(m.history, text)
	return nil
}

// Text returns the current content without counting a read
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Reads returns how many times ReadText was called
func (m *Memory) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes returns how many times WriteText was called
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// History returns every value written, in order
func (m *Memory) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// FailReads makes subsequent ReadText calls return err (nil clears)
func (m *Memory) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent WriteText calls return err (nil clears)
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}
