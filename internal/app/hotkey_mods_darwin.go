// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Hotkey modifier mapping for macOS
// Author:      Kiran Shivaraju
// Created:     2026-07-18
// License:     MIT
// ============================================================================

//go:build darwin

package app

import "golang.design/x/hotkey"

var hotkeyModifiers = map[string]hotkey.Modifier{
	"ctrl":   hotkey.ModCtrl,
	"shift":  hotkey.ModShift,
	"alt":    hotkey.ModOption,
	"option": hotkey.ModOption,
	"cmd":    hotkey.ModCmd,
	"super":  hotkey.ModCmd,
	"meta":   hotkey.ModCmd,
}
