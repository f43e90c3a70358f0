// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     engine
// Description: Clipboard-transactional execution of dictated segments
// Author:      Kiran Shivaraju
// Created:     2026-07-05
// License:     MIT
// ============================================================================

package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kiranshivaraju/voice2code/internal/automation"
	"github.com/kiranshivaraju/voice2code/internal/clipboard"
)

// Engine replays a segment sequence into the focused application. Literal
// text travels exclusively through the clipboard and is inserted with the
// fixed paste keystroke; named commands resolve through the keystroke
// table. The clipboard's prior content is captured before the first
// segment and written back on every exit path, so other applications
// never observe the engine's staging writes.
type Engine struct {
	mu         sync.Mutex
	clip       clipboard.Clipboard
	inv        automation.Invoker
	maxTextLen int
}

// Config holds engine configuration
type Config struct {
	// MaxTextLength bounds one text segment's clipboard write, counted in
	// runes. Oversized text is truncated silently. Zero means unbounded.
	MaxTextLength int
}

// New creates an execution engine over the given clipboard and invoker
func New(clip clipboard.Clipboard, inv automation.Invoker, cfg Config) *Engine {
	return &Engine{
		clip:       clip,
		inv:        inv,
		maxTextLen: cfg.MaxTextLength,
	}
}

// ExecutionError reports the first failing segment of a pass. The
// clipboard has already been restored by the time callers see it.
type ExecutionError struct {
	// Index is the zero-based position of the failing segment
	Index int

	// Segment is the failing segment itself
	Segment Segment

	// Err is the underlying automation or clipboard failure
	Err error
}

// Error returns the failure description
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("segment %d %s: %v", e.Index, e.Segment, e.Err)
}

// Unwrap returns the underlying error
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Execute runs one segment sequence as a single clipboard transaction.
//
// Segments run strictly in order. Whitespace-only text and unknown command
// names are no-ops. The first automation or clipboard-staging failure
// stops the pass; later segments are not attempted and the returned
// ExecutionError names the failing index. The pre-call clipboard content
// is restored exactly once before Execute returns, on success and on
// failure alike. A restore failure after a pass error is joined to that
// error rather than replacing it.
//
// At most one pass runs at a time: concurrent callers serialize on an
// internal mutex that spans the whole pass, keystrokes included. Execute
// blocks for the duration of every automation round-trip, so it must not
// be called from a UI event goroutine.
func (e *Engine) Execute(segments []Segment) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := clipboard.Begin(e.clip)
	if err != nil {
		return err
	}
	defer func() {
		restoreErr := tx.Restore()
		if restoreErr == nil {
			return
		}
		if err != nil {
			err = errors.Join(err, restoreErr)
			return
		}
		err = restoreErr
	}()

	for i, seg := range segments {
		if stepErr := e.dispatch(seg); stepErr != nil {
			return &ExecutionError{Index: i, Segment: seg, Err: stepErr}
		}
	}
	return nil
}

// dispatch performs one segment's effect
func (e *Engine) dispatch(seg Segment) error {
	switch seg.Kind {
	case KindText:
		return e.typeText(seg.Value)
	case KindCommand:
		return e.pressCommand(seg.Value)
	default:
		return fmt.Errorf("unrecognized segment kind %d", seg.Kind)
	}
}

// typeText stages the literal value on the clipboard and presses paste.
// The value itself never reaches the automation layer.
func (e *Engine) typeText(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	if err := e.clip.WriteText(e.bounded(value)); err != nil {
		return fmt.Errorf("stage text on clipboard: %w", err)
	}
	return e.inv.Perform(Paste)
}

// pressCommand resolves the command name and presses its keystroke.
// Unknown names are skipped.
func (e *Engine) pressCommand(name string) error {
	desc, ok := LookupCommand(name)
	if !ok {
		return nil
	}
	return e.inv.Perform(desc)
}

// bounded applies the configured text length bound
func (e *Engine) bounded(value string) string {
	if e.maxTextLen <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= e.maxTextLen {
		return value
	}
	return string(runes[:e.maxTextLen])
}
