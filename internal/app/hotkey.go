// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Global push-to-talk hotkey
// Author:      Kiran Shivaraju
// Created:     2026-07-18
// License:     MIT
// ============================================================================

package app

import (
	"fmt"
	"runtime"
	"strings"

	"golang.design/x/hotkey"
)

var hotkeyKeys = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"a":      hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC,
	"d": hotkey.KeyD, "e": hotkey.KeyE, "f": hotkey.KeyF,
	"g": hotkey.KeyG, "h": hotkey.KeyH, "i": hotkey.KeyI,
	"j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO,
	"p": hotkey.KeyP, "q": hotkey.KeyQ, "r": hotkey.KeyR,
	"s": hotkey.KeyS, "t": hotkey.KeyT, "u": hotkey.KeyU,
	"v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2,
	"3": hotkey.Key3, "4": hotkey.Key4, "5": hotkey.Key5,
	"6": hotkey.Key6, "7": hotkey.Key7, "8": hotkey.Key8,
	"9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// parseHotkey resolves configured modifier and key names into hotkey
// constants for the current platform.
func parseHotkey(mods []string, key string) ([]hotkey.Modifier, hotkey.Key, error) {
	if len(mods) == 0 {
		return nil, 0, fmt.Errorf("hotkey needs at least one modifier")
	}

	parsed := make([]hotkey.Modifier, 0, len(mods))
	for _, name := range mods {
		mod, ok := hotkeyModifiers[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, 0, fmt.Errorf("unknown hotkey modifier: %s", name)
		}
		parsed = append(parsed, mod)
	}

	k, ok := hotkeyKeys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, 0, fmt.Errorf("unknown hotkey key: %s", key)
	}

	return parsed, k, nil
}

// registerHotkey binds the global toggle hotkey.
//
// On macOS the hotkey library can crash with SIGTRAP from its Objective-C
// bridge, so registration is skipped there and the tray menu is the way
// to toggle.
func (a *App) registerHotkey() error {
	if runtime.GOOS == "darwin" {
		a.logger.Info("hotkey disabled on macOS, use the tray menu")
		return nil
	}

	mods, key, err := parseHotkey(a.config.Hotkey.Mods, a.config.Hotkey.Key)
	if err != nil {
		return err
	}

	a.hk = hotkey.New(mods, key)
	if err := a.hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey: %w", err)
	}

	go func() {
		for range a.hk.Keydown() {
			a.logger.Debug("hotkey pressed")
			a.Toggle("")
		}
	}()

	a.logger.Info("hotkey registered",
		"mods", strings.Join(a.config.Hotkey.Mods, "+"),
		"key", a.config.Hotkey.Key)
	return nil
}

func (a *App) unregisterHotkey() {
	if a.hk != nil {
		a.hk.Unregister()
		a.hk = nil
	}
}
