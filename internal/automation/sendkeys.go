// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     automation
// Description: Windows invoker using PowerShell SendKeys
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

// SendKeys tokens for the base keys
var sendKeysTokens = map[Key]string{
	KeyReturn:        "{ENTER}",
	KeyTab:           "{TAB}",
	KeySpace:         " ",
	KeyBackspace:     "{BACKSPACE}",
	KeyForwardDelete: "{DELETE}",
	KeyEscape:        "{ESC}",
	KeyA:             "a",
	KeyC:             "c",
	KeyV:             "v",
	KeyX:             "x",
	KeyZ:             "z",
}

// SendKeys modifier prefixes: ^ is Ctrl, + is Shift
var sendKeysModifiers = map[Mod]string{
	ModPrimary: "^",
	ModShift:   "+",
}

// SendKeys synthesizes keystrokes through PowerShell's SendKeys facility
type SendKeys struct{}

// NewSendKeys creates the Windows invoker
func NewSendKeys() *SendKeys {
	return &SendKeys{}
}

// Perform runs one descriptor via PowerShell
func (s *SendKeys) Perform(d Descriptor) error {
	sequence, err := sendKeysSequence(d)
	if err != nil {
		return &Error{Op: "powershell", Err: err}
	}

	script := fmt.Sprintf(
		`Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait("%s")`,
		sequence)

	cmd := exec.Command("powershell", "-NoProfile", "-Command", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &Error{
			Op:     "powershell",
			Output: strings.TrimSpace(string(output)),
			Err:    err,
		}
	}
	return nil
}

// sendKeysSequence renders a descriptor as a SendKeys sequence such as
// "{ENTER}" or "^+z", built only from the fixed tables.
func sendKeysSequence(d Descriptor) (string, error) {
	base, ok := sendKeysTokens[d.Key]
	if !ok {
		return "", fmt.Errorf("no SendKeys mapping for key %s", d.Key)
	}

	var b strings.Builder
	for _, m := range d.Mods {
		prefix, ok := sendKeysModifiers[m]
		if !ok {
			return "", fmt.Errorf("no SendKeys mapping for modifier %s", m)
		}
		b.WriteString(prefix)
	}
	b.WriteString(base)
	return b.String(), nil
}
