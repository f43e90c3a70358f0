// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     automation
// Description: macOS invoker using osascript and System Events
// Author:      Kiran Shivaraju
// Created:     2026-07-02
// License:     MIT
// ============================================================================

package automation

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// macOS virtual key codes for the non-letter keys
var macKeyCodes = map[Key]int{
	KeyReturn:        36,
	KeyTab:           48,
	KeySpace:         49,
	KeyBackspace:     51,
	KeyEscape:        53,
	KeyForwardDelete: 117,
}

// Letter keys are sent as keystroke characters so modifier combinations
// resolve through the active keyboard layout.
var macKeystrokes = map[Key]string{
	KeyA: "a",
	KeyC: "c",
	KeyV: "v",
	KeyX: "x",
	KeyZ: "z",
}

var macModifiers = map[Mod]string{
	ModPrimary: "command down",
	ModShift:   "shift down",
}

// Osascript synthesizes keystrokes through System Events
type Osascript struct{}

// NewOsascript creates the macOS invoker
func NewOsascript() *Osascript {
	return &Osascript{}
}

// Perform runs one descriptor via osascript
func (o *Osascript) Perform(d Descriptor) error {
	script, err := osascriptLine(d)
	if err != nil {
		return &Error{Op: "osascript", Err: err}
	}

	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &Error{
			Op:     "osascript",
			Output: accessibilityHint(string(output)),
			Err:    err,
		}
	}
	return nil
}

// osascriptLine builds the System Events command for one descriptor. Every
// piece of the script comes from the fixed tables above.
func osascriptLine(d Descriptor) (string, error) {
	using, err := macUsingClause(d.Mods)
	if err != nil {
		return "", err
	}

	if ch, ok := macKeystrokes[d.Key]; ok {
		if using == "" {
			return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, ch), nil
		}
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using %s`, ch, using), nil
	}

	code, ok := macKeyCodes[d.Key]
	if !ok {
		return "", fmt.Errorf("no macOS mapping for key %s", d.Key)
	}
	if using == "" {
		return fmt.Sprintf(`tell application "System Events" to key code %d`, code), nil
	}
	return fmt.Sprintf(`tell application "System Events" to key code %d using %s`, code, using), nil
}

// macUsingClause renders the ordered modifier list as an AppleScript
// "using" argument: {command down} or {command down, shift down}
func macUsingClause(mods []Mod) (string, error) {
	if len(mods) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(mods))
	for _, m := range mods {
		name, ok := macModifiers[m]
		if !ok {
			return "", fmt.Errorf("no macOS mapping for modifier %s", m)
		}
		parts = append(parts, name)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// accessibilityHint appends remediation guidance when the output points at
// a missing Accessibility permission (error -1002 / "not allowed")
func accessibilityHint(output string) string {
	trimmed := strings.TrimSpace(output)
	if !strings.Contains(trimmed, "not allowed") && !strings.Contains(trimmed, "1002") {
		return trimmed
	}

	termApp := os.Getenv("TERM_PROGRAM")
	if termApp == "" {
		termApp = "your terminal"
	}
	return trimmed + fmt.Sprintf(
		". Fix: System Settings > Privacy & Security > Accessibility > enable %s", termApp)
}
