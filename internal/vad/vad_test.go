// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     vad
// Description: Tests for voice activity detection and endpointing
// Author:      Kiran Shivaraju
// Created:     2026-07-15
// License:     MIT
// ============================================================================

package vad

import (
	"testing"
	"time"
)

func trackerConfig() Config {
	return Config{
		SampleRate:   16000,
		Mode:         2,
		Silence:      30 * time.Millisecond,
		MaxUtterance: 150 * time.Millisecond,
		MinSpeech:    10 * time.Millisecond,
	}
}

func TestTracker_SilenceEndsUtterance(t *testing.T) {
	tracker := NewTracker(trackerConfig())

	if tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = true before any speech")
	}

	tracker.Update(true)
	time.Sleep(15 * time.Millisecond)
	tracker.Update(true)

	if !tracker.Started() {
		t.Error("Started() = false after speech")
	}
	if tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = true while speaking")
	}

	// Trailing silence beyond the threshold ends the utterance.
	tracker.Update(false)
	time.Sleep(35 * time.Millisecond)
	state := tracker.Update(false)

	if !tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = false after silence threshold")
	}
	if state.Speaking {
		t.Error("State.Speaking = true after silence threshold")
	}
	if !tracker.IsValidSpeech() {
		t.Error("IsValidSpeech() = false for a real utterance")
	}
}

func TestTracker_MaxUtteranceHardStop(t *testing.T) {
	cfg := trackerConfig()
	cfg.MaxUtterance = 40 * time.Millisecond
	cfg.Silence = time.Hour // never reached
	tracker := NewTracker(cfg)

	tracker.Update(true)
	time.Sleep(50 * time.Millisecond)
	tracker.Update(true)

	if !tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = false past the hard cap")
	}
}

func TestTracker_ShortNoiseIsInvalid(t *testing.T) {
	cfg := trackerConfig()
	cfg.MinSpeech = 80 * time.Millisecond
	tracker := NewTracker(cfg)

	tracker.Update(true)
	time.Sleep(5 * time.Millisecond)
	tracker.Update(false)
	time.Sleep(35 * time.Millisecond)
	tracker.Update(false)

	if !tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = false after silence")
	}
	if tracker.IsValidSpeech() {
		t.Error("IsValidSpeech() = true for a blip shorter than MinSpeech")
	}
}

func TestTracker_SpeechClearsSilence(t *testing.T) {
	tracker := NewTracker(trackerConfig())

	tracker.Update(true)
	tracker.Update(false)
	time.Sleep(15 * time.Millisecond)
	tracker.Update(false)

	// Speech resumes before the threshold: the utterance continues.
	state := tracker.Update(true)
	if state.Silence != 0 {
		t.Errorf("State.Silence = %v after speech resumed, want 0", state.Silence)
	}
	if tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = true after speech resumed")
	}
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker(trackerConfig())

	tracker.Update(true)
	time.Sleep(35 * time.Millisecond)
	tracker.Update(false)
	tracker.Reset()

	if tracker.Started() {
		t.Error("Started() = true after Reset")
	}
	if tracker.EndOfUtterance() {
		t.Error("EndOfUtterance() = true after Reset")
	}
	if state := tracker.State(); state.Speaking || state.Utterance != 0 {
		t.Errorf("State() = %+v after Reset", state)
	}
}

func TestInt16ToBytes(t *testing.T) {
	samples := []int16{0x0102, -2, 0}
	got := int16ToBytes(samples)

	want := []byte{0x02, 0x01, 0xFE, 0xFF, 0x00, 0x00}
	if len(got) != len(want) {
		t.Fatalf("int16ToBytes() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestNewWebRTC_InvalidSampleRate(t *testing.T) {
	_, err := NewWebRTC(Config{SampleRate: 44100, Mode: 2})
	if err == nil {
		t.Error("NewWebRTC() expected error for 44100 Hz")
	}
}

func TestWebRTC_ProcessSilence(t *testing.T) {
	detector, err := NewWebRTC(DefaultConfig())
	if err != nil {
		t.Fatalf("NewWebRTC() error = %v", err)
	}
	defer detector.Close()

	// A 30ms frame of digital silence contains no speech.
	frame := make([]int16, 480)
	active, err := detector.Process(frame)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if active {
		t.Error("Process(silence) = true, want false")
	}

	// Odd-length frames are split into subframes without error.
	if _, err := detector.Process(make([]int16, 800)); err != nil {
		t.Errorf("Process(odd length) error = %v", err)
	}

	// Short frames are padded.
	if _, err := detector.Process(make([]int16, 10)); err != nil {
		t.Errorf("Process(short) error = %v", err)
	}
}
