// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     config
// Description: Tests for configuration loading
// Author:      Kiran Shivaraju
// Created:     2026-07-10
// License:     MIT
// ============================================================================

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"milliseconds", "800ms", 800 * time.Millisecond, false},
		{"seconds", "30s", 30 * time.Second, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Audio.Device != "default" {
		t.Errorf("Audio.Device = %v, want default", cfg.Audio.Device)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("Audio.SampleRate = %v, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Audio.FrameMs != 30 {
		t.Errorf("Audio.FrameMs = %v, want 30", cfg.Audio.FrameMs)
	}

	if cfg.VAD.Aggressiveness != 2 {
		t.Errorf("VAD.Aggressiveness = %v, want 2", cfg.VAD.Aggressiveness)
	}
	if cfg.VAD.Silence.Duration != 800*time.Millisecond {
		t.Errorf("VAD.Silence = %v, want 800ms", cfg.VAD.Silence.Duration)
	}
	if cfg.VAD.MaxUtterance.Duration != 30*time.Second {
		t.Errorf("VAD.MaxUtterance = %v, want 30s", cfg.VAD.MaxUtterance.Duration)
	}
	if cfg.VAD.MinSpeech.Duration != 200*time.Millisecond {
		t.Errorf("VAD.MinSpeech = %v, want 200ms", cfg.VAD.MinSpeech.Duration)
	}

	if cfg.STT.Backend != "cli" {
		t.Errorf("STT.Backend = %v, want cli", cfg.STT.Backend)
	}
	if cfg.STT.Language != "en" {
		t.Errorf("STT.Language = %v, want en", cfg.STT.Language)
	}
	if cfg.STT.Timeout.Duration != 60*time.Second {
		t.Errorf("STT.Timeout = %v, want 60s", cfg.STT.Timeout.Duration)
	}

	if cfg.Hotkey.Key != "space" {
		t.Errorf("Hotkey.Key = %v, want space", cfg.Hotkey.Key)
	}
	if len(cfg.Hotkey.Mods) != 2 {
		t.Errorf("Hotkey.Mods = %v, want [ctrl shift]", cfg.Hotkey.Mods)
	}

	if cfg.History.RetentionDays != 90 {
		t.Errorf("History.RetentionDays = %v, want 90", cfg.History.RetentionDays)
	}
	if cfg.History.Path == "" {
		t.Error("History.Path should have a default")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %v, want info", cfg.Log.Level)
	}
	if cfg.General.SocketPath == "" {
		t.Error("General.SocketPath should have a default")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("Load() expected error for non-existent file")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[general]
rules_path = "/etc/voice2code/rules.yaml"

[audio]
device = "USB Microphone"
sample_rate = 48000

[vad]
aggressiveness = 3
silence = "1200ms"

[stt]
backend = "server"
server_url = "http://10.0.0.5:8090/inference"

[engine]
max_text_length = 4096

[hotkey]
mods = ["alt"]
key = "d"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.Device != "USB Microphone" {
		t.Errorf("Audio.Device = %v, want USB Microphone", cfg.Audio.Device)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("Audio.SampleRate = %v, want 48000", cfg.Audio.SampleRate)
	}
	if cfg.VAD.Aggressiveness != 3 {
		t.Errorf("VAD.Aggressiveness = %v, want 3", cfg.VAD.Aggressiveness)
	}
	if cfg.VAD.Silence.Duration != 1200*time.Millisecond {
		t.Errorf("VAD.Silence = %v, want 1.2s", cfg.VAD.Silence.Duration)
	}
	if cfg.STT.Backend != "server" {
		t.Errorf("STT.Backend = %v, want server", cfg.STT.Backend)
	}
	if cfg.Engine.MaxTextLength != 4096 {
		t.Errorf("Engine.MaxTextLength = %v, want 4096", cfg.Engine.MaxTextLength)
	}
	if len(cfg.Hotkey.Mods) != 1 || cfg.Hotkey.Mods[0] != "alt" {
		t.Errorf("Hotkey.Mods = %v, want [alt]", cfg.Hotkey.Mods)
	}

	// Check defaults were applied for missing values
	if cfg.Audio.FrameMs != 30 {
		t.Errorf("Audio.FrameMs = %v, want 30 (default)", cfg.Audio.FrameMs)
	}
	if cfg.STT.Language != "en" {
		t.Errorf("STT.Language = %v, want en (default)", cfg.STT.Language)
	}
	if !cfg.General.Tray {
		t.Error("General.Tray = false, want true (default)")
	}
	if !cfg.Audio.Cues {
		t.Error("Audio.Cues = false, want true (default)")
	}
}

func TestLoad_ExplicitFalseBeatsSeededDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[general]
tray = false

[audio]
cues = false

[history]
enabled = false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Tray {
		t.Error("General.Tray = true, want explicit false")
	}
	if cfg.Audio.Cues {
		t.Error("Audio.Cues = true, want explicit false")
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want explicit false")
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	os.Setenv("TEST_V2C_DIR", "/srv/voice")
	defer os.Unsetenv("TEST_V2C_DIR")

	cfg := &Config{
		History: HistoryConfig{Path: "$TEST_V2C_DIR/history.db"},
	}
	cfg.expandEnvVars()

	if cfg.History.Path != "/srv/voice/history.db" {
		t.Errorf("History.Path = %v, want /srv/voice/history.db", cfg.History.Path)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[log]
level = "debug"

[stt]
backend = "cli"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	os.Setenv("VOICE2CODE_LOG_LEVEL", "error")
	os.Setenv("VOICE2CODE_STT_BACKEND", "stream")
	defer os.Unsetenv("VOICE2CODE_LOG_LEVEL")
	defer os.Unsetenv("VOICE2CODE_STT_BACKEND")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %v, want error (env override)", cfg.Log.Level)
	}
	if cfg.STT.Backend != "stream" {
		t.Errorf("STT.Backend = %v, want stream (env override)", cfg.STT.Backend)
	}
}

func TestLoadFromEnv_FallsBackToDefaults(t *testing.T) {
	original := os.Getenv("VOICE2CODE_CONFIG")
	os.Unsetenv("VOICE2CODE_CONFIG")
	defer func() {
		if original != "" {
			os.Setenv("VOICE2CODE_CONFIG", original)
		}
	}()

	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	// A missing HOME config is fine: the tool runs on defaults.
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.STT.Backend != "cli" {
		t.Errorf("STT.Backend = %v, want cli", cfg.STT.Backend)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true by default")
	}
}
