// Package mcp implements the JSON-RPC protocol surface of the server and its
// newline framed transport, used on stdin/stdout and optionally over TCP.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
)

const defaultMaxMessageBytes = 4 << 20

type Server struct {
	handler         *Handler
	addr            string
	maxMessageBytes int
	logger          *slog.Logger

	ln     net.Listener
	mu     sync.Mutex
	closed bool
}

func NewServer(h *Handler, addr string, maxMessageBytes int, logger *slog.Logger) *Server {
	if maxMessageBytes <= 0 {
		maxMessageBytes = defaultMaxMessageBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{handler: h, addr: addr, maxMessageBytes: maxMessageBytes, logger: logger}
}

// ServeStream reads one JSON-RPC message per line from r and writes each
// response as one line to w. Messages are handled strictly in order: a call
// is fully resolved and answered before the next line is read. It returns
// nil at EOF.
func (s *Server) ServeStream(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, s.maxMessageBytes)), s.maxMessageBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		resp := s.handler.HandleMessage(ctx, line)
		if resp == nil {
			continue
		}
		if err := writeResponse(w, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			_ = writeResponse(w, errorResponse(nil, dispatch.CodeInvalidRequest,
				fmt.Sprintf("Invalid Request: message exceeds %d bytes", s.maxMessageBytes)))
		}
		return fmt.Errorf("read message: %w", err)
	}
	return nil
}

func writeResponse(w io.Writer, resp *Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}

// ListenAndServe serves the line protocol on a TCP listener, one goroutine
// per connection.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("mcp server starting", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Error("mcp accept error", "err", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Shutdown(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	ctx := dispatch.WithTransport(context.Background(), "tcp")
	if err := s.ServeStream(ctx, conn, conn); err != nil {
		s.logger.Warn("mcp connection closed with error", "remote", conn.RemoteAddr().String(), "err", err)
	}
}
