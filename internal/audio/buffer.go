// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     audio
// Description: Sample buffers for pre-roll and utterance collection
// Author:      Kiran Shivaraju
// Created:     2026-07-06
// License:     MIT
// ============================================================================

package audio

import (
	"sync"
	"time"
)

// RingBuffer is a thread-safe ring buffer for audio samples. It holds the
// pre-roll audio that precedes detected speech, overwriting the oldest
// samples once full.
type RingBuffer struct {
	mu       sync.RWMutex
	data     []int16
	size     int
	writePos int
	readPos  int
	count    int
}

// NewRingBuffer creates a ring buffer with the specified capacity in samples.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data: make([]int16, capacity),
		size: capacity,
	}
}

// Write writes samples to the buffer, overwriting the oldest once full.
func (rb *RingBuffer) Write(samples []int16) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for _, s := range samples {
		rb.data[rb.writePos] = s
		rb.writePos = (rb.writePos + 1) % rb.size
		written++

		if rb.count < rb.size {
			rb.count++
		} else {
			rb.readPos = (rb.readPos + 1) % rb.size
		}
	}

	return written
}

// ReadAll drains all buffered samples, oldest first.
func (rb *RingBuffer) ReadAll() []int16 {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	samples := make([]int16, rb.count)
	for i := 0; i < rb.count; i++ {
		samples[i] = rb.data[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
	}
	rb.count = 0

	return samples
}

// GetAll returns all buffered samples without removing them.
func (rb *RingBuffer) GetAll() []int16 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	samples := make([]int16, rb.count)
	pos := rb.readPos
	for i := 0; i < rb.count; i++ {
		samples[i] = rb.data[pos]
		pos = (pos + 1) % rb.size
	}

	return samples
}

// Len returns the number of buffered samples.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// Cap returns the buffer capacity.
func (rb *RingBuffer) Cap() int {
	return rb.size
}

// Clear discards all buffered samples.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
}

// IsEmpty returns whether the buffer holds no samples.
func (rb *RingBuffer) IsEmpty() bool {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count == 0
}

// Utterance is a growing buffer that collects the samples of one spoken
// utterance between speech start and endpoint.
type Utterance struct {
	mu      sync.RWMutex
	samples []int16
}

// NewUtterance creates an empty utterance buffer sized for ~10s at 16kHz.
func NewUtterance() *Utterance {
	return &Utterance{
		samples: make([]int16, 0, DefaultSampleRate*10),
	}
}

// Append adds samples to the utterance.
func (u *Utterance) Append(samples []int16) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.samples = append(u.samples, samples...)
}

// Samples returns a copy of the collected samples.
func (u *Utterance) Samples() []int16 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	result := make([]int16, len(u.samples))
	copy(result, u.samples)
	return result
}

// Len returns the number of collected samples.
func (u *Utterance) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.samples)
}

// Duration returns the utterance length at the given sample rate.
func (u *Utterance) Duration(sampleRate int) time.Duration {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(u.samples)) * time.Second / time.Duration(sampleRate)
}

// Clear discards the collected samples, keeping capacity.
func (u *Utterance) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.samples = u.samples[:0]
}

// TrimToSize drops the oldest samples so at most maxSamples remain.
func (u *Utterance) TrimToSize(maxSamples int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.samples) > maxSamples {
		u.samples = u.samples[len(u.samples)-maxSamples:]
	}
}
