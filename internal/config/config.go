// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     config
// Description: TOML configuration with defaults and env overrides
// Author:      Kiran Shivaraju
// Created:     2026-07-10
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Audio   AudioConfig   `toml:"audio"`
	VAD     VADConfig     `toml:"vad"`
	STT     STTConfig     `toml:"stt"`
	Engine  EngineConfig  `toml:"engine"`
	Hotkey  HotkeyConfig  `toml:"hotkey"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir    string `toml:"data_dir"`
	RulesPath  string `toml:"rules_path"`
	SocketPath string `toml:"socket_path"`

	// HandsFree keeps listening across utterances instead of stopping
	// after each one.
	HandsFree bool `toml:"hands_free"`

	// Tray shows the system tray icon. Disable for headless use.
	Tray bool `toml:"tray"`

	// PauseMedia pauses MPRIS players while listening (linux only).
	PauseMedia bool `toml:"pause_media"`
}

// AudioConfig holds capture settings
type AudioConfig struct {
	// Device selects the input device by name substring, "default"
	// uses the system default.
	Device     string `toml:"device"`
	SampleRate int    `toml:"sample_rate"`
	FrameMs    int    `toml:"frame_ms"`
	Cues       bool   `toml:"cues"`
}

// VADConfig holds voice activity detection settings
type VADConfig struct {
	// Aggressiveness is the webrtcvad mode, 0 (permissive) to 3 (strict)
	Aggressiveness int      `toml:"aggressiveness"`
	Silence        Duration `toml:"silence"`
	MaxUtterance   Duration `toml:"max_utterance"`
	MinSpeech      Duration `toml:"min_speech"`
	PreRoll        Duration `toml:"pre_roll"`
}

// STTConfig holds transcription settings
type STTConfig struct {
	// Backend selects the transcriber: "cli", "server" or "stream"
	Backend   string   `toml:"backend"`
	Binary    string   `toml:"binary"`
	ModelPath string   `toml:"model_path"`
	ServerURL string   `toml:"server_url"`
	StreamURL string   `toml:"stream_url"`
	Language  string   `toml:"language"`
	Timeout   Duration `toml:"timeout"`
}

// EngineConfig holds execution engine settings
type EngineConfig struct {
	// MaxTextLength truncates dictated text runs, 0 means unbounded
	MaxTextLength int `toml:"max_text_length"`
}

// HotkeyConfig holds the push-to-talk binding
type HotkeyConfig struct {
	Mods []string `toml:"mods"`
	Key  string   `toml:"key"`
}

// HistoryConfig holds dictation history settings. A negative
// RetentionDays keeps entries forever.
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Booleans that default to true must be seeded before decoding, so an
	// absent key keeps the default while an explicit false wins.
	var cfg Config
	cfg.History.Enabled = true
	cfg.Audio.Cues = true
	cfg.General.Tray = true

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from the VOICE2CODE_CONFIG environment
// variable, falling back to the default locations. When no file exists
// anywhere, the defaults are used as-is.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("VOICE2CODE_CONFIG")
	if path == "" {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			"./config.toml",
			filepath.Join(home, ".config", "voice2code", "config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := defaultConfig()
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// defaultConfig returns a config with every default applied
func defaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.History.Enabled = true
	cfg.Audio.Cues = true
	cfg.General.Tray = true
	return &cfg
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	home, _ := os.UserHomeDir()

	// General
	if c.General.DataDir == "" {
		c.General.DataDir = filepath.Join(home, ".local", "share", "voice2code")
	}
	if c.General.SocketPath == "" {
		c.General.SocketPath = filepath.Join(os.TempDir(), "voice2code.sock")
	}

	// Audio
	if c.Audio.Device == "" {
		c.Audio.Device = "default"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.FrameMs == 0 {
		c.Audio.FrameMs = 30
	}

	// VAD
	if c.VAD.Aggressiveness == 0 {
		c.VAD.Aggressiveness = 2
	}
	if c.VAD.Silence.Duration == 0 {
		c.VAD.Silence.Duration = 800 * time.Millisecond
	}
	if c.VAD.MaxUtterance.Duration == 0 {
		c.VAD.MaxUtterance.Duration = 30 * time.Second
	}
	if c.VAD.MinSpeech.Duration == 0 {
		c.VAD.MinSpeech.Duration = 200 * time.Millisecond
	}
	if c.VAD.PreRoll.Duration == 0 {
		c.VAD.PreRoll.Duration = 300 * time.Millisecond
	}

	// STT
	if c.STT.Backend == "" {
		c.STT.Backend = "cli"
	}
	if c.STT.Binary == "" {
		c.STT.Binary = "whisper-cli"
	}
	if c.STT.ModelPath == "" {
		c.STT.ModelPath = filepath.Join(c.General.DataDir, "models", "ggml-base.en.bin")
	}
	if c.STT.ServerURL == "" {
		c.STT.ServerURL = "http://127.0.0.1:8090/inference"
	}
	if c.STT.StreamURL == "" {
		c.STT.StreamURL = "ws://127.0.0.1:8090/stream"
	}
	if c.STT.Language == "" {
		c.STT.Language = "en"
	}
	if c.STT.Timeout.Duration == 0 {
		c.STT.Timeout.Duration = 60 * time.Second
	}

	// Hotkey
	if len(c.Hotkey.Mods) == 0 {
		c.Hotkey.Mods = []string{"ctrl", "shift"}
	}
	if c.Hotkey.Key == "" {
		c.Hotkey.Key = "space"
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 90
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.RulesPath = os.ExpandEnv(c.General.RulesPath)
	c.General.SocketPath = os.ExpandEnv(c.General.SocketPath)
	c.STT.Binary = os.ExpandEnv(c.STT.Binary)
	c.STT.ModelPath = os.ExpandEnv(c.STT.ModelPath)
	c.History.Path = os.ExpandEnv(c.History.Path)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
