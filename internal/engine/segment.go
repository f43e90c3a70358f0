// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     engine
// Description: Instruction segments produced by the transcript segmenter
// Author:      Kiran Shivaraju
// Created:     2026-07-05
// License:     MIT
// ============================================================================

package engine

import (
	"fmt"
)

// Kind tags a segment as literal text or a named editing command. The tag
// set is closed: the engine recognizes exactly these two variants.
type Kind int

const (
	// KindText inserts the segment value literally at the cursor
	KindText Kind = iota

	// KindCommand presses the keystroke bound to the named command
	KindCommand
)

// String returns the kind's name
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Segment is one classified unit of a dictated instruction. Order inside a
// sequence is significant: segment i completes before segment i+1 begins.
type Segment struct {
	Kind  Kind
	Value string
}

// Text creates a literal text segment
func Text(value string) Segment {
	return Segment{Kind: KindText, Value: value}
}

// Command creates a named command segment
func Command(name string) Segment {
	return Segment{Kind: KindCommand, Value: name}
}

// String renders the segment for error messages and logs, shortening long
// text values.
func (s Segment) String() string {
	value := s.Value
	if runes := []rune(value); len(runes) > 32 {
		value = string(runes[:29]) + "..."
	}
	return fmt.Sprintf("%s(%q)", s.Kind, value)
}
