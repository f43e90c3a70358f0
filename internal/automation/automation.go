// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     automation
// Description: Synthesizes single keystroke actions in the focused app
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package automation

import (
	"fmt"
	"runtime"
	"strings"
)

// Key is a closed set of base keys the invokers know how to synthesize.
// Descriptors are built exclusively from these constants; dictated text
// never becomes part of a descriptor.
type Key int

const (
	KeyReturn Key = iota
	KeyTab
	KeySpace
	KeyBackspace
	KeyForwardDelete
	KeyEscape
	KeyA
	KeyC
	KeyV
	KeyX
	KeyZ
)

// String returns the key's name
func (k Key) String() string {
	switch k {
	case KeyReturn:
		return "return"
	case KeyTab:
		return "tab"
	case KeySpace:
		return "space"
	case KeyBackspace:
		return "backspace"
	case KeyForwardDelete:
		return "forward-delete"
	case KeyEscape:
		return "escape"
	case KeyA:
		return "a"
	case KeyC:
		return "c"
	case KeyV:
		return "v"
	case KeyX:
		return "x"
	case KeyZ:
		return "z"
	default:
		return "unknown"
	}
}

// Mod is a modifier held while the base key is pressed
type Mod int

const (
	// ModPrimary is the platform's primary shortcut modifier:
	// Command on macOS, Control everywhere else.
	ModPrimary Mod = iota
	ModShift
)

// String returns the modifier's name
func (m Mod) String() string {
	switch m {
	case ModPrimary:
		return "primary"
	case ModShift:
		return "shift"
	default:
		return "unknown"
	}
}

// Descriptor describes exactly one keystroke-level automation effect: a
// base key plus the modifiers held for it. Descriptors are immutable
// values declared at compile time.
type Descriptor struct {
	Key  Key
	Mods []Mod
}

// String renders the descriptor as "primary+shift+z" style
func (d Descriptor) String() string {
	parts := make([]string, 0, len(d.Mods)+1)
	for _, m := range d.Mods {
		parts = append(parts, m.String())
	}
	parts = append(parts, d.Key.String())
	return strings.Join(parts, "+")
}

// Invoker performs exactly one Descriptor's effect against whatever
// application currently holds input focus. A call may block for the whole
// external automation round-trip; callers that need time bounds must wrap
// the call themselves.
type Invoker interface {
	Perform(d Descriptor) error
}

// Error reports a failed automation call
type Error struct {
	// Op is the automation backend that failed (osascript, xdotool, powershell)
	Op string

	// Output is the backend's combined output, when any
	Output string

	// Err is the underlying failure
	Err error
}

// Error returns the failure description
func (e *Error) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns the automation invoker for the current platform
func New() (Invoker, error) {
	switch runtime.GOOS {
	case "darwin":
		return NewOsascript(), nil
	case "linux":
		return NewXdotool()
	case "windows":
		return NewSendKeys(), nil
	default:
		return nil, fmt.Errorf("keystroke automation not supported on %s", runtime.GOOS)
	}
}
