// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Hotkey modifier mapping for Linux
// Author:      Kiran Shivaraju
// Created:     2026-07-18
// License:     MIT
// ============================================================================

//go:build linux

package app

import "golang.design/x/hotkey"

var hotkeyModifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1,
	"super": hotkey.Mod4,
	"meta":  hotkey.Mod4,
}
