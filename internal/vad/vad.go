// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     vad
// Description: Voice activity detection and utterance endpointing
// Author:      Kiran Shivaraju
// Created:     2026-07-15
// License:     MIT
// ============================================================================

package vad

import (
	"time"
)

// Detector is the interface for voice activity detection
type Detector interface {
	// Process reports whether the frame contains speech
	Process(frame []int16) (bool, error)

	// Close releases resources
	Close() error
}

// Config holds VAD configuration
type Config struct {
	// SampleRate is the audio sample rate (8000, 16000, 32000 or 48000)
	SampleRate int

	// Mode is the webrtcvad aggressiveness, 0 (permissive) to 3 (strict)
	Mode int

	// Silence ends the utterance once this much trailing silence passes
	Silence time.Duration

	// MaxUtterance hard-stops an utterance regardless of silence
	MaxUtterance time.Duration

	// MinSpeech discards utterances shorter than this as noise
	MinSpeech time.Duration
}

// DefaultConfig returns default VAD configuration
func DefaultConfig() Config {
	return Config{
		SampleRate:   16000,
		Mode:         2,
		Silence:      800 * time.Millisecond,
		MaxUtterance: 30 * time.Second,
		MinSpeech:    200 * time.Millisecond,
	}
}

// State describes the current utterance
type State struct {
	// Speaking indicates speech is currently detected
	Speaking bool

	// UtteranceStart is when speech first appeared
	UtteranceStart time.Time

	// LastSpeech is when speech was last detected
	LastSpeech time.Time

	// Silence is the trailing silence so far
	Silence time.Duration

	// Utterance is the total utterance duration so far
	Utterance time.Duration
}

// Tracker turns per-frame speech decisions into utterance boundaries. A
// dictation utterance ends when trailing silence reaches the configured
// threshold or the utterance hits the hard cap.
type Tracker struct {
	config       Config
	state        State
	started      bool
	silenceStart time.Time
}

// NewTracker creates an utterance tracker
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		config: cfg,
	}
}

// Update advances the tracker with one frame decision
func (t *Tracker) Update(isSpeech bool) State {
	now := time.Now()

	if isSpeech {
		if !t.started {
			t.started = true
			t.state.UtteranceStart = now
			t.state.Speaking = true
		}

		t.state.LastSpeech = now
		t.state.Silence = 0
		t.silenceStart = time.Time{}
		t.state.Utterance = now.Sub(t.state.UtteranceStart)
	} else if t.started {
		if t.silenceStart.IsZero() {
			t.silenceStart = now
		}
		t.state.Silence = now.Sub(t.silenceStart)
		t.state.Utterance = now.Sub(t.state.UtteranceStart)

		if t.state.Silence >= t.config.Silence {
			t.state.Speaking = false
		}
	}

	return t.state
}

// EndOfUtterance returns true once the utterance should be finalized
func (t *Tracker) EndOfUtterance() bool {
	if !t.started {
		return false
	}
	if t.config.MaxUtterance > 0 && t.state.Utterance >= t.config.MaxUtterance {
		return true
	}
	return t.state.Silence >= t.config.Silence
}

// IsValidSpeech returns true if enough speech was captured to be worth
// transcribing
func (t *Tracker) IsValidSpeech() bool {
	if !t.started {
		return false
	}
	speech := t.state.Utterance - t.state.Silence
	return speech >= t.config.MinSpeech
}

// Started returns true once any speech was seen
func (t *Tracker) Started() bool {
	return t.started
}

// Reset clears the tracker for the next utterance
func (t *Tracker) Reset() {
	t.state = State{}
	t.started = false
	t.silenceStart = time.Time{}
}

// State returns the current utterance state
func (t *Tracker) State() State {
	return t.state
}
