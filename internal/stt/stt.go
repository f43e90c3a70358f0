// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     stt
// Description: Speech-to-text interface and backend selection
// Author:      Kiran Shivaraju
// Created:     2026-07-09
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by New.
const (
	BackendCLI    = "cli"
	BackendServer = "server"
	BackendStream = "stream"
)

// Transcriber is the interface for speech-to-text engines.
type Transcriber interface {
	// Transcribe converts mono PCM samples to text.
	Transcribe(ctx context.Context, samples []int16, sampleRate int) (*Result, error)

	// Close releases resources.
	Close() error
}

// Result holds a transcription result.
type Result struct {
	// Text is the transcribed text.
	Text string

	// Language is the language the text was transcribed as.
	Language string

	// Confidence is the confidence score (0-1), if the backend reports one.
	Confidence float32

	// Duration is the audio duration.
	Duration time.Duration
}

// Config holds STT configuration.
type Config struct {
	// Backend selects the engine: "cli", "server" or "stream".
	Backend string

	// Binary is the whisper binary for the cli backend.
	Binary string

	// ModelPath is the model file for the cli backend.
	ModelPath string

	// ServerURL is the inference endpoint for the server backend.
	ServerURL string

	// StreamURL is the websocket endpoint for the stream backend.
	StreamURL string

	// Language is the transcription language (e.g. "en", "auto").
	Language string

	// Timeout bounds a single transcription.
	Timeout time.Duration
}

// DefaultConfig returns default STT configuration.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendCLI,
		Binary:   "whisper-cli",
		Language: "en",
		Timeout:  60 * time.Second,
	}
}

// New creates the transcriber selected by cfg.Backend.
func New(cfg Config) (Transcriber, error) {
	switch cfg.Backend {
	case BackendCLI, "":
		return NewWhisperCLI(cfg)
	case BackendServer:
		return NewWhisperServer(cfg)
	case BackendStream:
		return NewStream(cfg)
	default:
		return nil, fmt.Errorf("unknown stt backend: %s", cfg.Backend)
	}
}
