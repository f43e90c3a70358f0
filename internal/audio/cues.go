// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     audio
// Description: Audible cues for listening state changes
// Author:      Kiran Shivaraju
// Created:     2026-07-07
// License:     MIT
// ============================================================================

package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	cueSampleRate = 22050
	cueToneLength = 70 * time.Millisecond
)

// Cues plays short tones when listening starts and stops, so the user
// knows the microphone state without looking at the tray.
type Cues struct {
	mu      sync.Mutex
	enabled bool
	playing bool
}

// NewCues creates a cue player. When disabled, all plays are no-ops.
func NewCues(enabled bool) *Cues {
	return &Cues{enabled: enabled}
}

// PlayStart plays the rising two-tone cue for listening start.
func (c *Cues) PlayStart() error {
	return c.play([]float64{880, 1175})
}

// PlayStop plays the falling two-tone cue for listening stop.
func (c *Cues) PlayStop() error {
	return c.play([]float64{1175, 880})
}

func (c *Cues) play(freqs []float64) error {
	c.mu.Lock()
	if !c.enabled || c.playing {
		c.mu.Unlock()
		return nil
	}
	c.playing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
	}()

	var samples []int16
	for _, f := range freqs {
		samples = append(samples, tone(f, cueToneLength, cueSampleRate)...)
	}

	return playSamples(samples, cueSampleRate)
}

// tone generates a sine tone with a short fade at both ends to avoid clicks.
func tone(freq float64, d time.Duration, sampleRate int) []int16 {
	n := int(float64(sampleRate) * d.Seconds())
	fade := sampleRate / 200 // 5ms
	samples := make([]int16, n)

	for i := range samples {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))

		gain := 0.4
		if i < fade {
			gain *= float64(i) / float64(fade)
		}
		if n-i < fade {
			gain *= float64(n-i) / float64(fade)
		}

		samples[i] = int16(v * gain * 32767)
	}

	return samples
}

// playSamples plays int16 samples on the default output device.
func playSamples(samples []int16, sampleRate int) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	bufferSize := 1024
	buffer := make([]int16, bufferSize)

	stream, err := portaudio.OpenDefaultStream(
		0, // input channels (none)
		1, // output channels
		float64(sampleRate),
		bufferSize,
		&buffer,
	)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	for position := 0; position < len(samples); position += bufferSize {
		for i := 0; i < bufferSize; i++ {
			if position+i < len(samples) {
				buffer[i] = samples[position+i]
			} else {
				buffer[i] = 0
			}
		}

		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write to stream: %w", err)
		}
	}

	return nil
}
