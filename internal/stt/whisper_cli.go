// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     stt
// Description: Whisper transcription via a local whisper.cpp binary
// Author:      Kiran Shivaraju
// Created:     2026-07-09
// License:     MIT
// ============================================================================

package stt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiranshivaraju/voice2code/internal/audio"
)

// WhisperCLI transcribes by invoking a whisper.cpp command line binary on
// a temporary WAV file.
type WhisperCLI struct {
	binaryPath string
	modelPath  string
	language   string
	timeout    time.Duration
	tempDir    string
}

// NewWhisperCLI creates a new whisper CLI transcriber.
func NewWhisperCLI(cfg Config) (*WhisperCLI, error) {
	binaryPath := findWhisperBinary(cfg.Binary)
	if binaryPath == "" {
		return nil, fmt.Errorf("whisper binary not found: %s", cfg.Binary)
	}

	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	tempDir, err := os.MkdirTemp("", "voice2code-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &WhisperCLI{
		binaryPath: binaryPath,
		modelPath:  cfg.ModelPath,
		language:   language,
		timeout:    cfg.Timeout,
		tempDir:    tempDir,
	}, nil
}

// findWhisperBinary resolves the whisper binary, preferring the configured
// name, then well-known install locations.
func findWhisperBinary(configured string) string {
	if configured != "" {
		if strings.ContainsRune(configured, os.PathSeparator) {
			if _, err := os.Stat(configured); err == nil {
				return configured
			}
			return ""
		}
		if path, err := exec.LookPath(configured); err == nil {
			return path
		}
	}

	for _, name := range []string{"whisper-cli", "whisper"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	locations := []string{
		"/opt/homebrew/bin/whisper-cli",
		"/usr/local/bin/whisper-cli",
		"/usr/local/bin/whisper",
		"/usr/bin/whisper",
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Transcribe writes the samples to a temp WAV file and runs whisper on it.
func (w *WhisperCLI) Transcribe(ctx context.Context, samples []int16, sampleRate int) (*Result, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	wavPath := filepath.Join(w.tempDir, fmt.Sprintf("audio_%d.wav", time.Now().UnixNano()))
	if err := os.WriteFile(wavPath, audio.EncodeWAV(samples, sampleRate), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write WAV file: %w", err)
	}
	defer os.Remove(wavPath)

	args := []string{
		"-m", w.modelPath,
		"-l", w.language,
		"-np", // no prints
		"-nt", // no timestamps
		"-f", wavPath,
	}

	cmd := exec.CommandContext(ctx, w.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("whisper timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("whisper failed: %w, stderr: %s", err, stderr.String())
	}

	var duration time.Duration
	if sampleRate > 0 {
		duration = time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	}

	return &Result{
		Text:       stripTimestamps(stdout.String()),
		Language:   w.language,
		Confidence: 0.9, // whisper.cpp does not report confidence
		Duration:   duration,
	}, nil
}

// stripTimestamps removes [00:00:00.000 --> 00:00:05.000] prefixes that
// some whisper builds emit even with -nt, and joins the lines.
func stripTimestamps(raw string) string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") && strings.Contains(line, "-->") {
			if idx := strings.Index(line, "]"); idx != -1 {
				line = strings.TrimSpace(line[idx+1:])
			}
		}
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, " ")
}

// Close removes the temp directory.
func (w *WhisperCLI) Close() error {
	if w.tempDir != "" {
		os.RemoveAll(w.tempDir)
	}
	return nil
}
