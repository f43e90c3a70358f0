// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     ipc
// Description: Framed control protocol between daemon and CLI
// Author:      Kiran Shivaraju
// Created:     2026-07-12
// License:     MIT
// ============================================================================

package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Protocol version for compatibility checking
const (
	ProtocolVersion = 1
	ProtocolMagic   = 0x56324350 // "V2CP"
)

// MessageType identifies the type of IPC message
type MessageType uint16

const (
	// Control messages (0x00xx)
	MsgPing         MessageType = 0x0001
	MsgPong         MessageType = 0x0002
	MsgError        MessageType = 0x0003
	MsgShutdown     MessageType = 0x0004
	MsgShutdownResp MessageType = 0x0005

	// Status (0x01xx)
	MsgStatusRequest  MessageType = 0x0100
	MsgStatusResponse MessageType = 0x0101

	// Dictation control (0x02xx)
	MsgToggle       MessageType = 0x0200
	MsgToggleResp   MessageType = 0x0201
	MsgTypeText     MessageType = 0x0202
	MsgTypeTextResp MessageType = 0x0203

	// Introspection (0x03xx)
	MsgDevices         MessageType = 0x0300
	MsgDevicesResp     MessageType = 0x0301
	MsgReloadRules     MessageType = 0x0302
	MsgReloadRulesResp MessageType = 0x0303
)

// Header is the fixed-size message header (16 bytes)
type Header struct {
	Magic     uint32
	Version   uint8
	Flags     uint8
	Type      MessageType
	RequestID uint32
	Length    uint32
}

// HeaderSize is the size of the header in bytes
const HeaderSize = 16

// MaxPayload bounds a single message payload
const MaxPayload = 4 * 1024 * 1024

// Message wraps a header and payload
type Message struct {
	Header  Header
	Payload []byte
}

// NewMessage creates a new message with the given type and payload
func NewMessage(msgType MessageType, requestID uint32, payload []byte) *Message {
	return &Message{
		Header: Header{
			Magic:     ProtocolMagic,
			Version:   ProtocolVersion,
			Type:      msgType,
			RequestID: requestID,
			Length:    uint32(len(payload)),
		},
		Payload: payload,
	}
}

// Write writes the header to a writer
func (h *Header) Write(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = h.Version
	buf[5] = h.Flags
	binary.BigEndian.PutUint16(buf[6:8], uint16(h.Type))
	binary.BigEndian.PutUint32(buf[8:12], h.RequestID)
	binary.BigEndian.PutUint32(buf[12:16], h.Length)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads a header from a reader
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	h := &Header{
		Magic:     binary.BigEndian.Uint32(buf[0:4]),
		Version:   buf[4],
		Flags:     buf[5],
		Type:      MessageType(binary.BigEndian.Uint16(buf[6:8])),
		RequestID: binary.BigEndian.Uint32(buf[8:12]),
		Length:    binary.BigEndian.Uint32(buf[12:16]),
	}

	if h.Magic != ProtocolMagic {
		return nil, fmt.Errorf("invalid magic number: %x", h.Magic)
	}
	if h.Version > ProtocolVersion {
		return nil, fmt.Errorf("unsupported protocol version: %d", h.Version)
	}

	return h, nil
}

// Write writes the message to a writer
func (m *Message) Write(w io.Writer) error {
	if err := m.Header.Write(w); err != nil {
		return err
	}
	if len(m.Payload) > 0 {
		_, err := w.Write(m.Payload)
		return err
	}
	return nil
}

// ReadMessage reads a complete message from a reader
func ReadMessage(r io.Reader) (*Message, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Message{Header: *h}
	if h.Length > 0 {
		if h.Length > MaxPayload {
			return nil, fmt.Errorf("payload too large: %d bytes", h.Length)
		}
		m.Payload = make([]byte, h.Length)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Request/Response payloads

// ErrorResponse is sent when an operation fails
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error codes
const (
	ErrUnknown        = 1
	ErrInvalidRequest = 2
	ErrBusy           = 3
	ErrInternalError  = 4
	ErrNotListening   = 5
)

// StatusResponse contains daemon status
type StatusResponse struct {
	Version    string        `json:"version"`
	Uptime     time.Duration `json:"uptime"`
	StartedAt  time.Time     `json:"started_at"`
	State      string        `json:"state"`
	STTBackend string        `json:"stt_backend"`
	Dictations int64         `json:"dictations"`
	LastError  string        `json:"last_error,omitempty"`
}

// ToggleRequest starts or stops listening
type ToggleRequest struct {
	// Force selects a direction: "start", "stop" or "" for toggle
	Force string `json:"force,omitempty"`
}

// ToggleResponse acknowledges a toggle
type ToggleResponse struct {
	Success bool   `json:"success"`
	State   string `json:"state"`
	Error   string `json:"error,omitempty"`
}

// TypeTextRequest executes a transcript without the audio pipeline
type TypeTextRequest struct {
	Text string `json:"text"`
}

// TypeTextResponse reports the executed segments
type TypeTextResponse struct {
	Success  bool   `json:"success"`
	Segments int    `json:"segments"`
	Commands int    `json:"commands"`
	Error    string `json:"error,omitempty"`
}

// DeviceInfo describes one audio input device
type DeviceInfo struct {
	Index      int     `json:"index"`
	Name       string  `json:"name"`
	SampleRate float64 `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Default    bool    `json:"default"`
}

// DevicesResponse lists audio input devices
type DevicesResponse struct {
	Devices []DeviceInfo `json:"devices"`
}

// ReloadRulesResponse acknowledges a rules reload
type ReloadRulesResponse struct {
	Success bool   `json:"success"`
	Rules   int    `json:"rules"`
	Error   string `json:"error,omitempty"`
}

// ShutdownResponse acknowledges a shutdown request
type ShutdownResponse struct {
	Success bool `json:"success"`
}

// Encode encodes a payload to JSON bytes
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes to a payload
func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// NewErrorMessage creates an error message
func NewErrorMessage(requestID uint32, code int, message string) *Message {
	payload, _ := Encode(&ErrorResponse{
		Code:    code,
		Message: message,
	})
	return NewMessage(MsgError, requestID, payload)
}

// NewResponse creates a response message
func NewResponse(msgType MessageType, requestID uint32, v any) (*Message, error) {
	payload, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return NewMessage(msgType, requestID, payload), nil
}
