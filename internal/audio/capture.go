// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     audio
// Description: Microphone capture using PortAudio
// Author:      Kiran Shivaraju
// Created:     2026-07-06
// License:     MIT
// ============================================================================

package audio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	// DefaultSampleRate is the capture rate expected by Whisper and the VAD.
	DefaultSampleRate = 16000

	// DefaultFrameMs is the frame length handed to the VAD.
	DefaultFrameMs = 30

	// DefaultChannels is mono audio.
	DefaultChannels = 1
)

// Capture reads microphone input and emits fixed-size int16 frames.
type Capture struct {
	mu          sync.RWMutex
	stream      *portaudio.Stream
	sampleRate  int
	frameSize   int
	channels    int
	deviceName  string
	running     bool
	outputChan  chan []int16
	initialized bool
}

// CaptureConfig holds configuration for audio capture.
type CaptureConfig struct {
	SampleRate int
	FrameMs    int
	Channels   int
	DeviceName string // input device name substring (empty or "default" = system default)
}

// DefaultCaptureConfig returns default capture configuration.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		SampleRate: DefaultSampleRate,
		FrameMs:    DefaultFrameMs,
		Channels:   DefaultChannels,
	}
}

// NewCapture creates a new audio capture instance.
func NewCapture(cfg CaptureConfig) (*Capture, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", cfg.SampleRate)
	}
	if cfg.FrameMs <= 0 {
		return nil, fmt.Errorf("invalid frame length: %dms", cfg.FrameMs)
	}
	if cfg.Channels <= 0 {
		cfg.Channels = DefaultChannels
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &Capture{
		sampleRate:  cfg.SampleRate,
		frameSize:   cfg.SampleRate * cfg.FrameMs / 1000,
		channels:    cfg.Channels,
		deviceName:  cfg.DeviceName,
		outputChan:  make(chan []int16, 100),
		initialized: true,
	}, nil
}

// Start begins audio capture.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("capture already running")
	}

	buffer := make([]int16, c.frameSize)

	var stream *portaudio.Stream
	var err error

	if c.deviceName != "" && c.deviceName != "default" {
		device, findErr := findInputDevice(c.deviceName)
		if findErr != nil {
			return findErr
		}
		params := portaudio.StreamParameters{
			Input: portaudio.StreamDeviceParameters{
				Device:   device,
				Channels: c.channels,
				Latency:  device.DefaultLowInputLatency,
			},
			SampleRate:      float64(c.sampleRate),
			FramesPerBuffer: c.frameSize,
		}
		stream, err = portaudio.OpenStream(params, buffer)
	} else {
		stream, err = portaudio.OpenDefaultStream(
			c.channels, // input channels
			0,          // output channels (none)
			float64(c.sampleRate),
			c.frameSize,
			buffer,
		)
	}

	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	c.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	c.running = true

	go c.captureLoop(ctx, buffer)

	return nil
}

// findInputDevice finds an input-capable PortAudio device whose name
// contains the given substring, case-insensitively.
func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	needle := strings.ToLower(name)
	for _, dev := range devices {
		if dev.MaxInputChannels > 0 && strings.Contains(strings.ToLower(dev.Name), needle) {
			return dev, nil
		}
	}

	return nil, fmt.Errorf("input device not found: %s", name)
}

// captureLoop continuously reads frames from the stream.
func (c *Capture) captureLoop(ctx context.Context, buffer []int16) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.mu.RLock()
			if !c.running || c.stream == nil {
				c.mu.RUnlock()
				return
			}
			stream := c.stream
			c.mu.RUnlock()

			if err := stream.Read(); err != nil {
				c.mu.RLock()
				stillRunning := c.running
				c.mu.RUnlock()
				if !stillRunning {
					return
				}
				continue
			}

			frame := make([]int16, len(buffer))
			copy(frame, buffer)

			select {
			case c.outputChan <- frame:
			default:
				// Channel full, drop the frame.
			}
		}
	}
}

// Stop stops audio capture.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	c.running = false

	if c.stream != nil {
		c.stream.Stop()
		if err := c.stream.Close(); err != nil {
			return fmt.Errorf("failed to close audio stream: %w", err)
		}
		c.stream = nil
	}

	return nil
}

// Close stops capture and releases PortAudio.
func (c *Capture) Close() error {
	if err := c.Stop(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		if err := portaudio.Terminate(); err != nil {
			return fmt.Errorf("failed to terminate PortAudio: %w", err)
		}
		c.initialized = false
	}

	close(c.outputChan)
	return nil
}

// Output returns the channel that receives captured frames.
func (c *Capture) Output() <-chan []int16 {
	return c.outputChan
}

// IsRunning returns whether capture is currently active.
func (c *Capture) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// SampleRate returns the configured sample rate.
func (c *Capture) SampleRate() int {
	return c.sampleRate
}

// FrameSize returns the number of samples per emitted frame.
func (c *Capture) FrameSize() int {
	return c.frameSize
}

// DeviceInfo describes an audio input device.
type DeviceInfo struct {
	Index             int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	Default           bool
}

// ListInputDevices returns all input-capable audio devices.
func ListInputDevices() ([]DeviceInfo, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	defaultInput, _ := portaudio.DefaultInputDevice()
	var defaultName string
	if defaultInput != nil {
		defaultName = defaultInput.Name
	}

	var inputs []DeviceInfo
	for i, dev := range devices {
		if dev.MaxInputChannels > 0 {
			inputs = append(inputs, DeviceInfo{
				Index:             i,
				Name:              dev.Name,
				MaxInputChannels:  dev.MaxInputChannels,
				DefaultSampleRate: dev.DefaultSampleRate,
				Default:           dev.Name == defaultName,
			})
		}
	}

	return inputs, nil
}
