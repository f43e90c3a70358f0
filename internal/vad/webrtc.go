// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     vad
// Description: WebRTC VAD implementation
// Author:      Kiran Shivaraju
// Created:     2026-07-15
// License:     MIT
// ============================================================================

package vad

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

// WebRTC implements voice activity detection using WebRTC's VAD
type WebRTC struct {
	vad        *webrtcvad.VAD
	sampleRate int
	mode       int
}

// NewWebRTC creates a WebRTC VAD instance
func NewWebRTC(cfg Config) (*WebRTC, error) {
	switch cfg.SampleRate {
	case 8000, 16000, 32000, 48000:
	default:
		return nil, fmt.Errorf("invalid sample rate %d, must be 8000, 16000, 32000 or 48000", cfg.SampleRate)
	}

	mode := cfg.Mode
	if mode < 0 {
		mode = 0
	}
	if mode > 3 {
		mode = 3
	}

	vad, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create WebRTC VAD: %w", err)
	}
	if err := vad.SetMode(mode); err != nil {
		return nil, fmt.Errorf("failed to set VAD mode: %w", err)
	}

	return &WebRTC{
		vad:        vad,
		sampleRate: cfg.SampleRate,
		mode:       mode,
	}, nil
}

// Process reports whether the frame contains speech. Frames of 10, 20 or
// 30 ms pass through directly; other lengths are split into 10 ms
// subframes, any speech subframe marks the whole frame as speech.
func (w *WebRTC) Process(frame []int16) (bool, error) {
	if len(frame) == 0 {
		return false, nil
	}

	if w.validFrameSize(len(frame)) {
		return w.processOne(frame)
	}

	sub := w.sampleRate / 100 // 10ms
	if len(frame) < sub {
		padded := make([]int16, sub)
		copy(padded, frame)
		return w.processOne(padded)
	}

	for i := 0; i+sub <= len(frame); i += sub {
		active, err := w.processOne(frame[i : i+sub])
		if err != nil {
			return false, err
		}
		if active {
			return true, nil
		}
	}
	return false, nil
}

func (w *WebRTC) processOne(frame []int16) (bool, error) {
	active, err := w.vad.Process(w.sampleRate, int16ToBytes(frame))
	if err != nil {
		return false, fmt.Errorf("VAD processing failed: %w", err)
	}
	return active, nil
}

// validFrameSize reports whether n samples form a 10, 20 or 30 ms frame
func (w *WebRTC) validFrameSize(n int) bool {
	ten := w.sampleRate / 100
	return n == ten || n == 2*ten || n == 3*ten
}

// int16ToBytes converts int16 samples to little-endian bytes
func int16ToBytes(samples []int16) []byte {
	bytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		bytes[i*2] = byte(s)
		bytes[i*2+1] = byte(s >> 8)
	}
	return bytes
}

// Close releases resources
func (w *WebRTC) Close() error {
	return nil
}

// SetMode sets the VAD aggressiveness mode (0-3)
func (w *WebRTC) SetMode(mode int) error {
	if mode < 0 || mode > 3 {
		return fmt.Errorf("mode must be between 0 and 3")
	}
	if err := w.vad.SetMode(mode); err != nil {
		return fmt.Errorf("failed to set mode: %w", err)
	}
	w.mode = mode
	return nil
}

// Mode returns the current aggressiveness mode
func (w *WebRTC) Mode() int {
	return w.mode
}

// SampleRate returns the configured sample rate
func (w *WebRTC) SampleRate() int {
	return w.sampleRate
}
