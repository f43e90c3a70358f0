// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: MPRIS media pause while the microphone is open
// Author:      Kiran Shivaraju
// Created:     2026-07-19
// License:     MIT
// ============================================================================

//go:build linux

package app

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/kiranshivaraju/voice2code/internal/logging"
)

const (
	mprisPrefix          = "org.mpris.MediaPlayer2."
	mprisPath            = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisPlayerInterface = "org.mpris.MediaPlayer2.Player"
)

// mprisControl pauses playing MPRIS media players so music does not bleed
// into the dictation, and resumes exactly the players it paused.
type mprisControl struct {
	mu     sync.Mutex
	logger *logging.Logger
	paused []string
}

func newMediaController(logger *logging.Logger) mediaController {
	return &mprisControl{logger: logger}
}

func (m *mprisControl) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		m.logger.Debug("no session bus, skipping media pause", "error", err)
		return
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		m.logger.Debug("failed to list bus names", "error", err)
		return
	}

	m.paused = m.paused[:0]
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}

		obj := conn.Object(name, mprisPath)
		status, err := obj.GetProperty(mprisPlayerInterface + ".PlaybackStatus")
		if err != nil {
			continue
		}

		var playing string
		if err := status.Store(&playing); err != nil || playing != "Playing" {
			continue
		}

		if call := obj.Call(mprisPlayerInterface+".Pause", 0); call.Err == nil {
			m.paused = append(m.paused, name)
			m.logger.Debug("paused media player", "player", name)
		}
	}
}

func (m *mprisControl) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.paused) == 0 {
		return
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return
	}

	for _, name := range m.paused {
		obj := conn.Object(name, mprisPath)
		if call := obj.Call(mprisPlayerInterface+".Play", 0); call.Err == nil {
			m.logger.Debug("resumed media player", "player", name)
		}
	}
	m.paused = m.paused[:0]
}
