// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     clipboard
// Description: Snapshot-restore transaction guard around clipboard use
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package clipboard

import (
	"fmt"
)

// Transaction captures the clipboard's content at Begin and writes it back
// on Restore. Restore is idempotent: the write-back happens exactly once no
// matter how many times it is called, so it is safe to both defer it and
// call it explicitly.
type Transaction struct {
	clip     Clipboard
	snapshot string
	restored bool
}

// Begin reads the clipboard and opens a transaction holding its content.
// If the initial read fails no transaction is opened, so the caller can
// abort before causing any side effect.
func Begin(c Clipboard) (*Transaction, error) {
	snapshot, err := c.ReadText()
	if err != nil {
		return nil, fmt.Errorf("clipboard snapshot: %w", err)
	}
	return &Transaction{clip: c, snapshot: snapshot}, nil
}

// Snapshot returns the content captured at Begin
func (t *Transaction) Snapshot() string {
	return t.snapshot
}

// Restore writes the snapshot back to the clipboard. Only the first call
// performs the write; later calls return nil.
func (t *Transaction) Restore() error {
	if t.restored {
		return nil
	}
	t.restored = true

	if err := t.clip.WriteText(t.snapshot); err != nil {
		return fmt.Errorf("clipboard restore: %w", err)
	}
	return nil
}
