// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     stt
// Description: Whisper transcription via a whisper.cpp server
// Author:      Kiran Shivaraju
// Created:     2026-07-10
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/audio"
)

// WhisperServer transcribes by uploading WAV audio to a whisper.cpp
// compatible inference endpoint.
type WhisperServer struct {
	url      string
	language string
	client   *http.Client
}

// NewWhisperServer creates a new whisper server client.
func NewWhisperServer(cfg Config) (*WhisperServer, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &WhisperServer{
		url:      cfg.ServerURL,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Transcribe uploads the samples as a multipart WAV file.
func (w *WhisperServer) Transcribe(ctx context.Context, samples []int16, sampleRate int) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio.EncodeWAV(samples, sampleRate)); err != nil {
		return nil, fmt.Errorf("failed to write WAV data: %w", err)
	}

	writer.WriteField("language", w.language)
	writer.WriteField("response_format", "json")

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(detail))
	}

	var response struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("server error: %s", response.Error)
	}

	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}

	return &Result{
		Text:       response.Text,
		Language:   w.language,
		Confidence: 0.9,
		Duration:   duration,
	}, nil
}

// Close releases resources.
func (w *WhisperServer) Close() error {
	return nil
}
