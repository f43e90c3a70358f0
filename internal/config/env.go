// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     config
// Description: Environment variable overrides
// Author:      Kiran Shivaraju
// Created:     2026-07-11
// License:     MIT
// ============================================================================

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides holds raw environment values applied on top of the file.
// Only commonly toggled settings are exposed this way.
type envOverrides struct {
	LogLevel      string `env:"VOICE2CODE_LOG_LEVEL"`
	LogFormat     string `env:"VOICE2CODE_LOG_FORMAT"`
	SocketPath    string `env:"VOICE2CODE_SOCKET"`
	RulesPath     string `env:"VOICE2CODE_RULES"`
	AudioDevice   string `env:"VOICE2CODE_AUDIO_DEVICE"`
	STTBackend    string `env:"VOICE2CODE_STT_BACKEND"`
	STTServerURL  string `env:"VOICE2CODE_STT_SERVER_URL"`
	WhisperBinary string `env:"VOICE2CODE_WHISPER_BIN"`
	WhisperModel  string `env:"VOICE2CODE_WHISPER_MODEL"`
	HistoryPath   string `env:"VOICE2CODE_HISTORY_PATH"`
}

// applyEnvOverrides overlays environment variables onto the config
func (c *Config) applyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env overrides: %w", err)
	}

	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.SocketPath != "" {
		c.General.SocketPath = o.SocketPath
	}
	if o.RulesPath != "" {
		c.General.RulesPath = o.RulesPath
	}
	if o.AudioDevice != "" {
		c.Audio.Device = o.AudioDevice
	}
	if o.STTBackend != "" {
		c.STT.Backend = o.STTBackend
	}
	if o.STTServerURL != "" {
		c.STT.ServerURL = o.STTServerURL
	}
	if o.WhisperBinary != "" {
		c.STT.Binary = o.WhisperBinary
	}
	if o.WhisperModel != "" {
		c.STT.ModelPath = o.WhisperModel
	}
	if o.HistoryPath != "" {
		c.History.Path = o.HistoryPath
	}
	return nil
}
