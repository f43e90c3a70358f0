// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     engine
// Description: Static table mapping command names to keystroke descriptors
// Author:      Kiran Shivaraju
// Created:     2026-07-05
// License:     MIT
// ============================================================================

package engine

import (
	"sort"

	"github.com/kiranshivaraju/voice2code/internal/automation"
)

// Paste is the fixed descriptor that inserts staged clipboard text. It is
// the only automation effect ever used for dictated text.
var Paste = automation.Descriptor{
	Key:  automation.KeyV,
	Mods: []automation.Mod{automation.ModPrimary},
}

// keystrokeTable is the closed command vocabulary. It is built once at
// init and never mutated; command names map to fixed descriptors, never to
// anything derived from dictated text.
var keystrokeTable = map[string]automation.Descriptor{
	"newline":   {Key: automation.KeyReturn},
	"return":    {Key: automation.KeyReturn},
	"enter":     {Key: automation.KeyReturn},
	"tab":       {Key: automation.KeyTab},
	"space":     {Key: automation.KeySpace},
	"backspace": {Key: automation.KeyBackspace},
	"delete":    {Key: automation.KeyForwardDelete},
	"escape":    {Key: automation.KeyEscape},

	"select-all": {Key: automation.KeyA, Mods: []automation.Mod{automation.ModPrimary}},
	"undo":       {Key: automation.KeyZ, Mods: []automation.Mod{automation.ModPrimary}},
	"redo":       {Key: automation.KeyZ, Mods: []automation.Mod{automation.ModPrimary, automation.ModShift}},
	"copy":       {Key: automation.KeyC, Mods: []automation.Mod{automation.ModPrimary}},
	"paste":      Paste,
	"cut":        {Key: automation.KeyX, Mods: []automation.Mod{automation.ModPrimary}},
}

// LookupCommand resolves a command name to its keystroke descriptor. The
// returned descriptor carries a copied modifier list, so table entries
// stay immutable.
func LookupCommand(name string) (automation.Descriptor, bool) {
	d, ok := keystrokeTable[name]
	if !ok {
		return automation.Descriptor{}, false
	}
	if len(d.Mods) > 0 {
		mods := make([]automation.Mod, len(d.Mods))
		copy(mods, d.Mods)
		d.Mods = mods
	}
	return d, true
}

// Commands returns the recognized command names, sorted
func Commands() []string {
	names := make([]string, 0, len(keystrokeTable))
	for name := range keystrokeTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
