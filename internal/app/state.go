// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Dictation state machine
// Author:      Kiran Shivaraju
// Created:     2026-07-18
// License:     MIT
// ============================================================================

package app

import (
	"sync"
	"time"
)

// State represents the current state of the dictation pipeline
type State int

const (
	// StateIdle - waiting for the hotkey or a toggle request
	StateIdle State = iota

	// StateListening - capturing microphone audio
	StateListening

	// StateTranscribing - running speech-to-text on an utterance
	StateTranscribing

	// StateExecuting - typing segments into the focused application
	StateExecuting

	// StateError - a pipeline stage failed
	StateError
)

// String returns the lowercase state name used in status responses.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateTranscribing:
		return "transcribing"
	case StateExecuting:
		return "executing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Icon returns a tray glyph for the state.
func (s State) Icon() string {
	switch s {
	case StateIdle:
		return "⏸"
	case StateListening:
		return "🎤"
	case StateTranscribing:
		return "⚙"
	case StateExecuting:
		return "⌨"
	case StateError:
		return "✗"
	default:
		return "?"
	}
}

// StateChangeListener is called after every state change.
type StateChangeListener func(oldState, newState State)

// StateMachine manages pipeline state transitions.
type StateMachine struct {
	mu            sync.RWMutex
	currentState  State
	previousState State
	stateTime     time.Time
	listeners     []StateChangeListener
}

// NewStateMachine creates a state machine starting at idle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		currentState: StateIdle,
		stateTime:    time.Now(),
	}
}

// Current returns the current state.
func (sm *StateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Previous returns the previous state.
func (sm *StateMachine) Previous() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.previousState
}

// StateDuration returns how long the current state has been held.
func (sm *StateMachine) StateDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return time.Since(sm.stateTime)
}

// Transition changes to a new state. It returns false and does nothing
// when the transition is not allowed from the current state.
func (sm *StateMachine) Transition(newState State) bool {
	sm.mu.Lock()
	oldState := sm.currentState

	if !isValidTransition(oldState, newState) {
		sm.mu.Unlock()
		return false
	}

	sm.previousState = oldState
	sm.currentState = newState
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, newState)
	}

	return true
}

// AddListener registers a state change listener.
func (sm *StateMachine) AddListener(listener StateChangeListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

func isValidTransition(from, to State) bool {
	validTransitions := map[State][]State{
		StateIdle:         {StateListening, StateExecuting, StateError},
		StateListening:    {StateTranscribing, StateIdle, StateError},
		StateTranscribing: {StateExecuting, StateListening, StateIdle, StateError},
		StateExecuting:    {StateIdle, StateListening, StateError},
		StateError:        {StateIdle},
	}

	for _, valid := range validTransitions[from] {
		if valid == to {
			return true
		}
	}

	return false
}

// Reset forces the state machine back to idle from any state.
func (sm *StateMachine) Reset() {
	sm.mu.Lock()
	oldState := sm.currentState
	sm.previousState = oldState
	sm.currentState = StateIdle
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, StateIdle)
	}
}

// IsActive returns true while the pipeline is doing something.
func (sm *StateMachine) IsActive() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState != StateIdle && sm.currentState != StateError
}
