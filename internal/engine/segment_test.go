// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     engine
// Description: Tests for the segment model
// Author:      Kiran Shivaraju
// Created:     2026-07-05
// License:     MIT
// ============================================================================

package engine

import (
	"strings"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindText, "text"},
		{KindCommand, "command"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSegment_Constructors(t *testing.T) {
	s := Text("hello world")
	if s.Kind != KindText || s.Value != "hello world" {
		t.Errorf("Text() = %+v", s)
	}

	c := Command("newline")
	if c.Kind != KindCommand || c.Value != "newline" {
		t.Errorf("Command() = %+v", c)
	}
}

func TestSegment_String(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want string
	}{
		{"text", Text("hello"), `text("hello")`},
		{"command", Command("undo"), `command("undo")`},
		{"empty text", Text(""), `text("")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegment_StringTruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := Text(long).String()

	if !strings.HasSuffix(got, `...")`) {
		t.Errorf("String() = %q, want truncated with ellipsis", got)
	}
	if len(got) > 48 {
		t.Errorf("String() length = %d, want short preview", len(got))
	}

	// Multi-byte runes must not be split.
	umlauts := strings.Repeat("ü", 100)
	if s := Text(umlauts).String(); !strings.Contains(s, "üüü") || strings.Contains(s, "�") {
		t.Errorf("String() broke a rune: %q", s)
	}
}
