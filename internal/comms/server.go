package comms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
	"github.com/joseb33w/google-docs-mcp-server/internal/mcp"
)

// DefaultSubject is the request subject when none is configured.
const DefaultSubject = "docs.mcp.v1"

// Server answers JSON-RPC messages published as NATS requests. Each message
// is handled on the subscription goroutine, so calls are processed in
// arrival order.
type Server struct {
	nc      *nats.Conn
	handler *mcp.Handler
	subject string
	queue   string
	logger  *slog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

func NewServer(nc *nats.Conn, h *mcp.Handler, subject, queue string, logger *slog.Logger) *Server {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{nc: nc, handler: h, subject: subject, queue: queue, logger: logger}
}

// Start subscribes to the request subject. With a queue group, several
// server instances share the load.
func (s *Server) Start() error {
	var (
		sub *nats.Subscription
		err error
	)
	if s.queue != "" {
		sub, err = s.nc.QueueSubscribe(s.subject, s.queue, s.handleMsg)
	} else {
		sub, err = s.nc.Subscribe(s.subject, s.handleMsg)
	}
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.subject, err)
	}
	if err := s.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("flush subscription: %w", err)
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	s.logger.Info("nats server subscribed", "subject", s.subject, "queue", s.queue)
	return nil
}

func (s *Server) handleMsg(msg *nats.Msg) {
	ctx := dispatch.WithTransport(context.Background(), "nats")
	resp := s.handler.HandleMessage(ctx, msg.Data)
	if resp == nil || msg.Reply == "" {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "err", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Warn("failed to respond", "subject", msg.Subject, "err", err)
	}
}

// Shutdown drains the subscription so in-flight messages are answered.
func (s *Server) Shutdown(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil
	}
	err := s.sub.Drain()
	s.sub = nil
	return err
}
