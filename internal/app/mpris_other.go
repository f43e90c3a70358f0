// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Media pause stub for platforms without MPRIS
// Author:      Kiran Shivaraju
// Created:     2026-07-19
// License:     MIT
// ============================================================================

//go:build !linux

package app

import "github.com/kiranshivaraju/voice2code/internal/logging"

// nopMediaController is used on platforms without MPRIS.
type nopMediaController struct{}

func newMediaController(_ *logging.Logger) mediaController {
	return nopMediaController{}
}

func (nopMediaController) Pause()  {}
func (nopMediaController) Resume() {}
