// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     automation
// Description: Linux invoker using xdotool (X11)
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package automation

import (
	"fmt"
	"os/exec"
	"strings"
)

// X keysym names for the base keys
var xdoKeys = map[Key]string{
	KeyReturn:        "Return",
	KeyTab:           "Tab",
	KeySpace:         "space",
	KeyBackspace:     "BackSpace",
	KeyForwardDelete: "Delete",
	KeyEscape:        "Escape",
	KeyA:             "a",
	KeyC:             "c",
	KeyV:             "v",
	KeyX:             "x",
	KeyZ:             "z",
}

var xdoModifiers = map[Mod]string{
	ModPrimary: "ctrl",
	ModShift:   "shift",
}

// Xdotool synthesizes keystrokes through the xdotool helper
type Xdotool struct {
	path string
}

// NewXdotool creates the Linux invoker. It fails when xdotool is not on
// PATH so the missing dependency surfaces at startup, not mid-dictation.
func NewXdotool() (*Xdotool, error) {
	path, err := exec.LookPath("xdotool")
	if err != nil {
		return nil, fmt.Errorf("xdotool not found, install it (e.g. apt install xdotool): %w", err)
	}
	return &Xdotool{path: path}, nil
}

// Perform runs one descriptor via xdotool
func (x *Xdotool) Perform(d Descriptor) error {
	token, err := xdoToken(d)
	if err != nil {
		return &Error{Op: "xdotool", Err: err}
	}

	cmd := exec.Command(x.path, "key", "--clearmodifiers", token)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &Error{
			Op:     "xdotool",
			Output: strings.TrimSpace(string(output)),
			Err:    err,
		}
	}
	return nil
}

// xdoToken renders a descriptor as an xdotool key token such as
// "Return" or "ctrl+shift+z", built only from the fixed tables.
func xdoToken(d Descriptor) (string, error) {
	base, ok := xdoKeys[d.Key]
	if !ok {
		return "", fmt.Errorf("no X11 mapping for key %s", d.Key)
	}

	parts := make([]string, 0, len(d.Mods)+1)
	for _, m := range d.Mods {
		name, ok := xdoModifiers[m]
		if !ok {
			return "", fmt.Errorf("no X11 mapping for modifier %s", m)
		}
		parts = append(parts, name)
	}
	parts = append(parts, base)
	return strings.Join(parts, "+"), nil
}
