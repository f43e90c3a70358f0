// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Tests for the control socket handler
// Author:      Kiran Shivaraju
// Created:     2026-07-19
// License:     MIT
// ============================================================================

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kiranshivaraju/voice2code/internal/config"
	"github.com/kiranshivaraju/voice2code/internal/ipc"
)

func TestHandleMessage_Ping(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgPing, 7, nil))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Header.Type != ipc.MsgPong {
		t.Errorf("response type = %#x, want pong", resp.Header.Type)
	}
	if resp.Header.RequestID != 7 {
		t.Errorf("RequestID = %d, want 7", resp.Header.RequestID)
	}
	if len(resp.Payload) != 0 {
		t.Errorf("pong payload = %d bytes, want none", len(resp.Payload))
	}
}

func TestHandleMessage_Status(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgStatusRequest, 1, nil))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Header.Type != ipc.MsgStatusResponse {
		t.Fatalf("response type = %#x, want status response", resp.Header.Type)
	}

	var status ipc.StatusResponse
	if err := ipc.Decode(resp.Payload, &status); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if status.State != "idle" {
		t.Errorf("State = %q, want idle", status.State)
	}
	if status.STTBackend != "cli" {
		t.Errorf("STTBackend = %q, want cli", status.STTBackend)
	}
}

func TestHandleMessage_TypeText(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	payload, err := ipc.Encode(ipc.TypeTextRequest{Text: "hello new line"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgTypeText, 2, payload))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Header.Type != ipc.MsgTypeTextResp {
		t.Fatalf("response type = %#x, want type response", resp.Header.Type)
	}

	var tr ipc.TypeTextResponse
	if err := ipc.Decode(resp.Payload, &tr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !tr.Success {
		t.Errorf("Success = false, error = %q", tr.Error)
	}
	if tr.Segments != 2 || tr.Commands != 1 {
		t.Errorf("Segments/Commands = %d/%d, want 2/1", tr.Segments, tr.Commands)
	}

	calls := p.invoker.snapshot()
	if len(calls) != 2 || calls[0] != "primary+v" || calls[1] != "return" {
		t.Errorf("keystrokes = %v, want [primary+v return]", calls)
	}
}

func TestHandleMessage_TypeTextMalformed(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	resp, err := p.app.HandleMessage(context.Background(),
		ipc.NewMessage(ipc.MsgTypeText, 3, []byte("{not json")))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Header.Type != ipc.MsgError {
		t.Fatalf("response type = %#x, want error", resp.Header.Type)
	}

	var errResp ipc.ErrorResponse
	if err := ipc.Decode(resp.Payload, &errResp); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if errResp.Code != ipc.ErrInvalidRequest {
		t.Errorf("Code = %d, want %d", errResp.Code, ipc.ErrInvalidRequest)
	}
}

func TestHandleMessage_Toggle(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	payload, _ := ipc.Encode(ipc.ToggleRequest{Force: "start"})
	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgToggle, 4, payload))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	var tr ipc.ToggleResponse
	if err := ipc.Decode(resp.Payload, &tr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !tr.Success {
		t.Fatalf("Success = false, error = %q", tr.Error)
	}
	if tr.State != "listening" {
		t.Errorf("State = %q, want listening", tr.State)
	}

	payload, _ = ipc.Encode(ipc.ToggleRequest{Force: "stop"})
	resp, err = p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgToggle, 5, payload))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := ipc.Decode(resp.Payload, &tr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !tr.Success {
		t.Errorf("Success = false on stop, error = %q", tr.Error)
	}

	// Stopping again fails but still reports the state.
	resp, err = p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgToggle, 6, payload))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := ipc.Decode(resp.Payload, &tr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if tr.Success {
		t.Error("Success = true stopping while idle, want false")
	}
	if tr.State != "idle" {
		t.Errorf("State = %q, want idle", tr.State)
	}
}

func TestHandleMessage_ReloadRules(t *testing.T) {
	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	rulesYAML := `rules:
  - match: "arrow func"
    replace: "() => {}"
  - match: " dot "
    replace: "."
`
	if err := os.WriteFile(rulesPath, []byte(rulesYAML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	p := newTestPipeline(t, "", func(cfg *config.Config) {
		cfg.General.RulesPath = rulesPath
	})

	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgReloadRules, 8, nil))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	var rr ipc.ReloadRulesResponse
	if err := ipc.Decode(resp.Payload, &rr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !rr.Success || rr.Rules != 2 {
		t.Errorf("ReloadRules = success %v, %d rules, want success with 2", rr.Success, rr.Rules)
	}

	// The reloaded rules apply to typed text.
	segs := p.app.segmenter().Segment("fmt dot println")
	if len(segs) != 1 || segs[0].Value != "fmt.println" {
		t.Errorf("Segment() = %v, want [fmt.println]", segs)
	}
}

func TestHandleMessage_ReloadRulesUnconfigured(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgReloadRules, 9, nil))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	var rr ipc.ReloadRulesResponse
	if err := ipc.Decode(resp.Payload, &rr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if rr.Success {
		t.Error("Success = true with no rules path, want false")
	}
	if rr.Error == "" {
		t.Error("Error empty, want reason")
	}
}

func TestHandleMessage_UnknownType(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	resp, err := p.app.HandleMessage(context.Background(),
		ipc.NewMessage(ipc.MessageType(0x7fff), 10, nil))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Header.Type != ipc.MsgError {
		t.Fatalf("response type = %#x, want error", resp.Header.Type)
	}

	var errResp ipc.ErrorResponse
	if err := ipc.Decode(resp.Payload, &errResp); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if errResp.Code != ipc.ErrInvalidRequest {
		t.Errorf("Code = %d, want %d", errResp.Code, ipc.ErrInvalidRequest)
	}
}

func TestHandleMessage_Shutdown(t *testing.T) {
	p := newTestPipeline(t, "", nil)

	resp, err := p.app.HandleMessage(context.Background(), ipc.NewMessage(ipc.MsgShutdown, 11, nil))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if resp.Header.Type != ipc.MsgShutdownResp {
		t.Fatalf("response type = %#x, want shutdown response", resp.Header.Type)
	}

	var sr ipc.ShutdownResponse
	if err := ipc.Decode(resp.Payload, &sr); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !sr.Success {
		t.Error("Success = false")
	}

	if p.app.ctx.Err() == nil {
		t.Error("daemon context not cancelled after shutdown")
	}
}
