// Package http serves the JSON-RPC protocol over HTTP POST, plus health,
// metadata and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
	"github.com/joseb33w/google-docs-mcp-server/internal/mcp"
	"github.com/joseb33w/google-docs-mcp-server/internal/telemetry"
)

const defaultMaxBodyBytes = 1 << 20

type Server struct {
	handler      *mcp.Handler
	srv          *http.Server
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewServer(addr string, h *mcp.Handler, maxBodyBytes int64, logger *slog.Logger) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{handler: h, logger: logger, maxBodyBytes: maxBodyBytes}

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the full route table wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mcp", s.handleMCP)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /metrics", telemetry.Handler())
	return withLogging(s.logger, withCORS(mux))
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, rpcError(dispatch.CodeInvalidRequest,
				fmt.Sprintf("Invalid Request: body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		writeJSON(w, http.StatusBadRequest, rpcError(dispatch.CodeParseError, "Parse error"))
		return
	}

	ctx := dispatch.WithTransport(r.Context(), "http")
	resp := s.handler.HandleMessage(ctx, body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func rpcError(code int, msg string) *mcp.Response {
	return &mcp.Response{JSONRPC: mcp.JSONRPCVersion, Error: &mcp.RPCError{Code: code, Message: msg}}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := s.handler.Info()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"service":  info.Name,
		"version":  info.Version,
		"provider": string(s.handler.ProviderState()),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	info := s.handler.Info()
	writeJSON(w, http.StatusOK, map[string]any{
		"name":            info.Name,
		"version":         info.Version,
		"protocolVersion": mcp.ProtocolVersion,
		"transport":       "http",
		"endpoints": map[string]string{
			"mcp":     "POST /mcp",
			"health":  "GET /health",
			"metrics": "GET /metrics",
		},
		"tools": s.handler.Catalog().Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// withCORS opens the API to any origin and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
