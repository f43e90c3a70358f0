// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     app
// Description: Control socket request handling
// Author:      Kiran Shivaraju
// Created:     2026-07-19
// License:     MIT
// ============================================================================

package app

import (
	"context"

	"github.com/kiranshivaraju/voice2code/internal/audio"
	"github.com/kiranshivaraju/voice2code/internal/ipc"
)

// HandleMessage dispatches one control socket request. It implements
// ipc.Handler.
func (a *App) HandleMessage(ctx context.Context, msg *ipc.Message) (*ipc.Message, error) {
	reqID := msg.Header.RequestID

	switch msg.Header.Type {
	case ipc.MsgPing:
		return ipc.NewMessage(ipc.MsgPong, reqID, nil), nil

	case ipc.MsgStatusRequest:
		return ipc.NewResponse(ipc.MsgStatusResponse, reqID, a.Status())

	case ipc.MsgToggle:
		return a.handleToggle(reqID, msg.Payload)

	case ipc.MsgTypeText:
		return a.handleTypeText(reqID, msg.Payload)

	case ipc.MsgDevices:
		return a.handleDevices(reqID)

	case ipc.MsgReloadRules:
		return a.handleReloadRules(reqID)

	case ipc.MsgShutdown:
		a.logger.Info("shutdown requested over socket")
		a.Shutdown()
		return ipc.NewResponse(ipc.MsgShutdownResp, reqID, ipc.ShutdownResponse{Success: true})

	default:
		return ipc.NewErrorMessage(reqID, ipc.ErrInvalidRequest, "unknown message type"), nil
	}
}

func (a *App) handleToggle(reqID uint32, payload []byte) (*ipc.Message, error) {
	var req ipc.ToggleRequest
	if len(payload) > 0 {
		if err := ipc.Decode(payload, &req); err != nil {
			return ipc.NewErrorMessage(reqID, ipc.ErrInvalidRequest, "malformed toggle request"), nil
		}
	}

	resp := ipc.ToggleResponse{Success: true}
	if err := a.Toggle(req.Force); err != nil {
		resp.Success = false
		resp.Error = err.Error()
	}
	resp.State = a.state.Current().String()

	return ipc.NewResponse(ipc.MsgToggleResp, reqID, resp)
}

func (a *App) handleTypeText(reqID uint32, payload []byte) (*ipc.Message, error) {
	var req ipc.TypeTextRequest
	if err := ipc.Decode(payload, &req); err != nil {
		return ipc.NewErrorMessage(reqID, ipc.ErrInvalidRequest, "malformed type request"), nil
	}

	segments, commands, err := a.TypeText(req.Text)
	resp := ipc.TypeTextResponse{
		Success:  err == nil,
		Segments: segments,
		Commands: commands,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	return ipc.NewResponse(ipc.MsgTypeTextResp, reqID, resp)
}

func (a *App) handleDevices(reqID uint32) (*ipc.Message, error) {
	devices, err := audio.ListInputDevices()
	if err != nil {
		return ipc.NewErrorMessage(reqID, ipc.ErrInternalError, err.Error()), nil
	}

	resp := ipc.DevicesResponse{Devices: make([]ipc.DeviceInfo, 0, len(devices))}
	for _, dev := range devices {
		resp.Devices = append(resp.Devices, ipc.DeviceInfo{
			Index:      dev.Index,
			Name:       dev.Name,
			SampleRate: dev.DefaultSampleRate,
			Channels:   dev.MaxInputChannels,
			Default:    dev.Default,
		})
	}

	return ipc.NewResponse(ipc.MsgDevicesResp, reqID, resp)
}

func (a *App) handleReloadRules(reqID uint32) (*ipc.Message, error) {
	count, err := a.ReloadRules()
	resp := ipc.ReloadRulesResponse{
		Success: err == nil,
		Rules:   count,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	return ipc.NewResponse(ipc.MsgReloadRulesResp, reqID, resp)
}
