// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     ipc
// Description: Control channel client used by the CLI
// Author:      Kiran Shivaraju
// Created:     2026-07-12
// License:     MIT
// ============================================================================

package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// Common errors
var (
	ErrNotConnected     = errors.New("not connected to daemon")
	ErrDaemonNotRunning = errors.New("daemon is not running")
)

// Client talks to the daemon over the control socket. Requests are
// serialized; the daemon answers in order.
type Client struct {
	mu        sync.Mutex
	conn      net.Conn
	nextReqID atomic.Uint32
	timeout   time.Duration
}

// ClientConfig configures the control client
type ClientConfig struct {
	SocketPath     string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// DefaultClientConfig returns sensible defaults
func DefaultClientConfig(socketPath string) ClientConfig {
	return ClientConfig{
		SocketPath:     socketPath,
		ConnectTimeout: 3 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// Dial connects to the daemon socket
func Dial(cfg ClientConfig) (*Client, error) {
	conn, err := net.DialTimeout("unix", cfg.SocketPath, cfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonNotRunning, err)
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{conn: conn, timeout: timeout}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Request sends one message and waits for its response. Error responses
// from the daemon come back as Go errors.
func (c *Client) Request(ctx context.Context, msgType MessageType, payload any) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = Encode(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	reqID := c.nextReqID.Add(1)
	msg := NewMessage(msgType, reqID, body)
	if err := msg.Write(c.conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	resp, err := ReadMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Header.RequestID != reqID {
		return nil, fmt.Errorf("response for wrong request: got %d, want %d", resp.Header.RequestID, reqID)
	}

	if resp.Header.Type == MsgError {
		var errResp ErrorResponse
		if err := Decode(resp.Payload, &errResp); err != nil {
			return nil, fmt.Errorf("daemon error (undecodable): %v", err)
		}
		return nil, fmt.Errorf("daemon error %d: %s", errResp.Code, errResp.Message)
	}

	return resp, nil
}

// Ping checks that the daemon is alive
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Request(ctx, MsgPing, nil)
	if err != nil {
		return err
	}
	if resp.Header.Type != MsgPong {
		return fmt.Errorf("unexpected reply type: 0x%04x", uint16(resp.Header.Type))
	}
	return nil
}

// Status fetches the daemon status
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	resp, err := c.Request(ctx, MsgStatusRequest, nil)
	if err != nil {
		return nil, err
	}

	var status StatusResponse
	if err := Decode(resp.Payload, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

// Toggle starts or stops listening. force is "start", "stop" or ""
func (c *Client) Toggle(ctx context.Context, force string) (*ToggleResponse, error) {
	resp, err := c.Request(ctx, MsgToggle, &ToggleRequest{Force: force})
	if err != nil {
		return nil, err
	}

	var toggle ToggleResponse
	if err := Decode(resp.Payload, &toggle); err != nil {
		return nil, fmt.Errorf("decode toggle response: %w", err)
	}
	return &toggle, nil
}

// TypeText executes a transcript directly, without the audio pipeline
func (c *Client) TypeText(ctx context.Context, text string) (*TypeTextResponse, error) {
	resp, err := c.Request(ctx, MsgTypeText, &TypeTextRequest{Text: text})
	if err != nil {
		return nil, err
	}

	var result TypeTextResponse
	if err := Decode(resp.Payload, &result); err != nil {
		return nil, fmt.Errorf("decode type response: %w", err)
	}
	return &result, nil
}

// Devices lists the daemon's audio input devices
func (c *Client) Devices(ctx context.Context) (*DevicesResponse, error) {
	resp, err := c.Request(ctx, MsgDevices, nil)
	if err != nil {
		return nil, err
	}

	var devices DevicesResponse
	if err := Decode(resp.Payload, &devices); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}
	return &devices, nil
}

// ReloadRules asks the daemon to reload the replacement rules file
func (c *Client) ReloadRules(ctx context.Context) (*ReloadRulesResponse, error) {
	resp, err := c.Request(ctx, MsgReloadRules, nil)
	if err != nil {
		return nil, err
	}

	var reload ReloadRulesResponse
	if err := Decode(resp.Payload, &reload); err != nil {
		return nil, fmt.Errorf("decode reload response: %w", err)
	}
	return &reload, nil
}

// Shutdown asks the daemon to exit. The daemon may tear the socket down
// before its acknowledgement arrives, so a lost connection after the
// request was sent counts as success.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.Request(ctx, MsgShutdown, nil)
	if err != nil && connectionLost(err) {
		return nil
	}
	return err
}

func connectionLost(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
