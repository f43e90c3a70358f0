// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Hotkey modifier mapping for Windows
// Author:      Kiran Shivaraju
// Created:     2026-07-18
// License:     MIT
// ============================================================================

//go:build windows

package app

import "golang.design/x/hotkey"

var hotkeyModifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModAlt,
	"super": hotkey.ModWin,
	"meta":  hotkey.ModWin,
	"win":   hotkey.ModWin,
}
