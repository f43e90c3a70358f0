// ============================================================================
// voice2code - Voice Dictation for Developers
// ============================================================================
//
// Package:     ipc
// Description: Unix socket server for the daemon control channel
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
	"os"
	"sync"

	"github.com/kiranshivaraju/voice2code/internal/logging"
)

// Handler processes one request message and returns the response
type Handler interface {
	HandleMessage(ctx context.Context, msg *Message) (*Message, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, msg *Message) (*Message, error)

// HandleMessage calls f
func (f HandlerFunc) HandleMessage(ctx context.Context, msg *Message) (*Message, error) {
	return f(ctx, msg)
}

// Server accepts control connections on a unix socket. One daemon runs
// one server; the socket file doubles as the single-instance lock.
type Server struct {
	mu       sync.Mutex
	path     string
	handler  Handler
	logger   *logging.Logger
	listener net.Listener
	conns    map[net.Conn]bool
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a control server bound to the socket path
func NewServer(path string, handler Handler, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		path:    path,
		handler: handler,
		logger:  logger,
		conns:   make(map[net.Conn]bool),
	}
}

// Listen binds the socket. A stale socket file from a dead daemon is
// removed; a live one means another instance is running.
func (s *Server) Listen() error {
	if _, err := os.Stat(s.path); err == nil {
		if conn, err := net.Dial("unix", s.path); err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running on %s", s.path)
		}
		if err := os.Remove(s.path); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
		s.logger.Warn("Removed stale socket", "path", s.path)
	}

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0600); err != nil {
		listener.Close()
		os.Remove(s.path)
		return fmt.Errorf("failed to restrict socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("Control socket listening", "path", s.path)
	return nil
}

// Serve accepts connections until ctx is cancelled or Close is called
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server not listening, call Listen first")
	}

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.mu.Lock()
		s.conns[conn] = true
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(ctx, conn)
	}
}

// serveConn handles one client connection
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		s.wg.Done()
	}()

	for {
		msg, err := ReadMessage(conn)
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("Client connection closed", "error", err)
			}
			return
		}

		resp, err := s.handler.HandleMessage(ctx, msg)
		if err != nil {
			s.logger.Error("Handler failed", "type", fmt.Sprintf("0x%04x", uint16(msg.Header.Type)), "error", err)
			resp = NewErrorMessage(msg.Header.RequestID, ErrInternalError, err.Error())
		}
		if resp == nil {
			continue
		}

		if err := resp.Write(conn); err != nil {
			s.logger.Debug("Failed to write response", "error", err)
			return
		}
	}
}

// Close shuts the server down and removes the socket file
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	listener := s.listener
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.path)

	s.logger.Info("Control socket closed", "path", s.path)
	return err
}
