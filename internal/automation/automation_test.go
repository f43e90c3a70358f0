// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     automation
// Description: Tests for keystroke descriptors and platform scripts
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package automation

import (
	"strings"
	"testing"
)

func TestOsascriptLine(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want string
	}{
		{
			name: "return key code",
			desc: Descriptor{Key: KeyReturn},
			want: `tell application "System Events" to key code 36`,
		},
		{
			name: "tab key code",
			desc: Descriptor{Key: KeyTab},
			want: `tell application "System Events" to key code 48`,
		},
		{
			name: "escape key code",
			desc: Descriptor{Key: KeyEscape},
			want: `tell application "System Events" to key code 53`,
		},
		{
			name: "forward delete key code",
			desc: Descriptor{Key: KeyForwardDelete},
			want: `tell application "System Events" to key code 117`,
		},
		{
			name: "paste",
			desc: Descriptor{Key: KeyV, Mods: []Mod{ModPrimary}},
			want: `tell application "System Events" to keystroke "v" using {command down}`,
		},
		{
			name: "select all",
			desc: Descriptor{Key: KeyA, Mods: []Mod{ModPrimary}},
			want: `tell application "System Events" to keystroke "a" using {command down}`,
		},
		{
			name: "redo with two modifiers in order",
			desc: Descriptor{Key: KeyZ, Mods: []Mod{ModPrimary, ModShift}},
			want: `tell application "System Events" to keystroke "z" using {command down, shift down}`,
		},
		{
			name: "plain letter",
			desc: Descriptor{Key: KeyC},
			want: `tell application "System Events" to keystroke "c"`,
		},
		{
			name: "modified key code",
			desc: Descriptor{Key: KeyTab, Mods: []Mod{ModShift}},
			want: `tell application "System Events" to key code 48 using {shift down}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := osascriptLine(tt.desc)
			if err != nil {
				t.Fatalf("osascriptLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("osascriptLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestXdoToken(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want string
	}{
		{"return", Descriptor{Key: KeyReturn}, "Return"},
		{"tab", Descriptor{Key: KeyTab}, "Tab"},
		{"space", Descriptor{Key: KeySpace}, "space"},
		{"backspace", Descriptor{Key: KeyBackspace}, "BackSpace"},
		{"forward delete", Descriptor{Key: KeyForwardDelete}, "Delete"},
		{"escape", Descriptor{Key: KeyEscape}, "Escape"},
		{"paste", Descriptor{Key: KeyV, Mods: []Mod{ModPrimary}}, "ctrl+v"},
		{"redo", Descriptor{Key: KeyZ, Mods: []Mod{ModPrimary, ModShift}}, "ctrl+shift+z"},
		{"cut", Descriptor{Key: KeyX, Mods: []Mod{ModPrimary}}, "ctrl+x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := xdoToken(tt.desc)
			if err != nil {
				t.Fatalf("xdoToken() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("xdoToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSendKeysSequence(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want string
	}{
		{"return", Descriptor{Key: KeyReturn}, "{ENTER}"},
		{"tab", Descriptor{Key: KeyTab}, "{TAB}"},
		{"space", Descriptor{Key: KeySpace}, " "},
		{"backspace", Descriptor{Key: KeyBackspace}, "{BACKSPACE}"},
		{"escape", Descriptor{Key: KeyEscape}, "{ESC}"},
		{"paste", Descriptor{Key: KeyV, Mods: []Mod{ModPrimary}}, "^v"},
		{"undo", Descriptor{Key: KeyZ, Mods: []Mod{ModPrimary}}, "^z"},
		{"redo", Descriptor{Key: KeyZ, Mods: []Mod{ModPrimary, ModShift}}, "^+z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sendKeysSequence(tt.desc)
			if err != nil {
				t.Fatalf("sendKeysSequence() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("sendKeysSequence() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptor_String(t *testing.T) {
	tests := []struct {
		desc Descriptor
		want string
	}{
		{Descriptor{Key: KeyReturn}, "return"},
		{Descriptor{Key: KeyV, Mods: []Mod{ModPrimary}}, "primary+v"},
		{Descriptor{Key: KeyZ, Mods: []Mod{ModPrimary, ModShift}}, "primary+shift+z"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.desc.String(); got != tt.want {
				t.Errorf("Descriptor.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllKeysMappedOnEveryPlatform(t *testing.T) {
	keys := []Key{
		KeyReturn, KeyTab, KeySpace, KeyBackspace, KeyForwardDelete,
		KeyEscape, KeyA, KeyC, KeyV, KeyX, KeyZ,
	}

	for _, k := range keys {
		t.Run(k.String(), func(t *testing.T) {
			if _, err := osascriptLine(Descriptor{Key: k}); err != nil {
				t.Errorf("macOS mapping missing: %v", err)
			}
			if _, err := xdoToken(Descriptor{Key: k}); err != nil {
				t.Errorf("X11 mapping missing: %v", err)
			}
			if _, err := sendKeysSequence(Descriptor{Key: k}); err != nil {
				t.Errorf("SendKeys mapping missing: %v", err)
			}
		})
	}
}

func TestAccessibilityHint(t *testing.T) {
	hinted := accessibilityHint("execution error: osascript is not allowed assistive access. (-1002)")
	if !strings.Contains(hinted, "Privacy & Security") {
		t.Errorf("permission failure should carry remediation hint: %q", hinted)
	}

	plain := accessibilityHint("some other failure")
	if strings.Contains(plain, "Privacy & Security") {
		t.Errorf("unrelated failure should not carry the hint: %q", plain)
	}
}

func TestError_Format(t *testing.T) {
	inner := &Error{Op: "xdotool", Output: "cannot open display", Err: errExit}
	if !strings.Contains(inner.Error(), "xdotool") || !strings.Contains(inner.Error(), "cannot open display") {
		t.Errorf("Error() = %q, want op and output included", inner.Error())
	}

	bare := &Error{Op: "osascript", Err: errExit}
	if strings.Contains(bare.Error(), "  ") {
		t.Errorf("Error() without output should stay compact: %q", bare.Error())
	}
}

var errExit = exitError("exit status 1")

type exitError string

func (e exitError) Error() string { return string(e) }
