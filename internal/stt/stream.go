// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     stt
// Description: Streaming transcription over WebSocket
// Author:      Kiran Shivaraju
// Created:     2026-07-10
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// streamChunkSamples is the number of samples per binary frame (200ms at
// 16kHz).
const streamChunkSamples = 3200

// streamMessage is the JSON control message exchanged with the streaming
// server. Audio itself travels as binary frames.
type streamMessage struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Language   string `json:"language,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Stream transcribes against a streaming transcription endpoint: PCM
// frames up, partial and final transcripts down.
type Stream struct {
	mu        sync.Mutex
	url       string
	language  string
	timeout   time.Duration
	conn      *websocket.Conn
	onPartial func(text string)
}

// NewStream creates a new streaming transcriber. The connection is
// established lazily on first use.
func NewStream(cfg Config) (*Stream, error) {
	if cfg.StreamURL == "" {
		return nil, fmt.Errorf("stream URL is required")
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &Stream{
		url:      cfg.StreamURL,
		language: language,
		timeout:  cfg.Timeout,
	}, nil
}

// OnPartial registers a callback for partial transcripts.
func (s *Stream) OnPartial(fn func(text string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPartial = fn
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Stream) connectLocked(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.url, err)
	}

	s.conn = conn
	return nil
}

// Transcribe streams the samples and waits for the final transcript.
// One utterance per call; the connection is reused across calls.
func (s *Stream) Transcribe(ctx context.Context, samples []int16, sampleRate int) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connectLocked(ctx); err != nil {
		return nil, err
	}
	conn := s.conn

	start := streamMessage{Type: "start", SampleRate: sampleRate, Language: s.language}
	if err := conn.WriteJSON(start); err != nil {
		s.dropLocked()
		return nil, fmt.Errorf("failed to start utterance: %w", err)
	}

	for offset := 0; offset < len(samples); offset += streamChunkSamples {
		end := offset + streamChunkSamples
		if end > len(samples) {
			end = len(samples)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, sampleBytes(samples[offset:end])); err != nil {
			s.dropLocked()
			return nil, fmt.Errorf("failed to send audio: %w", err)
		}
	}

	if err := conn.WriteJSON(streamMessage{Type: "end"}); err != nil {
		s.dropLocked()
		return nil, fmt.Errorf("failed to end utterance: %w", err)
	}

	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}

	for {
		select {
		case <-ctx.Done():
			s.dropLocked()
			return nil, ctx.Err()
		default:
		}

		if s.timeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.timeout))
		}

		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			s.dropLocked()
			return nil, fmt.Errorf("failed to read transcript: %w", err)
		}

		switch msg.Type {
		case "partial":
			if s.onPartial != nil {
				s.onPartial(msg.Text)
			}

		case "final":
			return &Result{
				Text:     msg.Text,
				Language: s.language,
				Duration: duration,
			}, nil

		case "error":
			return nil, fmt.Errorf("server error: %s", msg.Error)

		case "pong":
			continue
		}
	}
}

// Ping sends a keepalive message.
func (s *Stream) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	return s.conn.WriteJSON(streamMessage{Type: "ping"})
}

// IsConnected returns whether the client currently holds a connection.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// dropLocked discards a broken connection so the next call reconnects.
func (s *Stream) dropLocked() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// Close closes the connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

// sampleBytes converts samples to little-endian bytes for the wire.
func sampleBytes(samples []int16) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(samples)*2))
	binary.Write(buf, binary.LittleEndian, samples)
	return buf.Bytes()
}
