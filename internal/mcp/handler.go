package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
	"github.com/joseb33w/google-docs-mcp-server/internal/telemetry"
)

// ToolErrorMode selects how failed tool calls are rendered.
type ToolErrorMode int

const (
	// ToolErrorsAsEnvelope renders failures as JSON-RPC error objects.
	ToolErrorsAsEnvelope ToolErrorMode = iota
	// ToolErrorsAsResult renders failures as a tool result flagged isError.
	// Unknown tools are still envelope errors.
	ToolErrorsAsResult
)

// Handler implements the JSON-RPC method surface shared by every transport.
// It holds no per-connection state.
type Handler struct {
	disp   *dispatch.Dispatcher
	info   ServerInfo
	mode   ToolErrorMode
	logger *slog.Logger
}

func NewHandler(d *dispatch.Dispatcher, info ServerInfo, mode ToolErrorMode, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{disp: d, info: info, mode: mode, logger: logger}
}

func (h *Handler) Info() ServerInfo { return h.info }

func (h *Handler) Catalog() *catalog.Catalog { return h.disp.Catalog() }

func (h *Handler) ProviderState() dispatch.CellState { return h.disp.ProviderState() }

// HandleMessage decodes one raw message and handles it. It returns nil when
// no response must be sent.
func (h *Handler) HandleMessage(ctx context.Context, raw []byte) *Response {
	if !json.Valid(raw) {
		return errorResponse(nil, dispatch.CodeParseError, "Parse error")
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(salvageID(raw), dispatch.CodeInvalidRequest, "Invalid Request: "+err.Error())
	}
	return h.Handle(ctx, req)
}

// salvageID recovers the id of a message whose other fields do not decode,
// so the error can still be matched by the caller. It returns nil (null)
// when no id can be read.
func salvageID(raw []byte) json.RawMessage {
	var partial struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil
	}
	return partial.ID
}

func (h *Handler) Handle(ctx context.Context, req Request) *Response {
	telemetry.IncRPCRequest(dispatch.TransportFrom(ctx), req.Method)

	// Notifications are never answered, not even when malformed.
	if req.IsNotification() {
		h.logger.Debug("notification received", "method", req.Method, "jsonrpc", req.JSONRPC)
		return nil
	}
	if req.JSONRPC != JSONRPCVersion {
		return errorResponse(req.ID, dispatch.CodeInvalidRequest, `Invalid Request: jsonrpc must be "2.0"`)
	}
	if req.Method == "" {
		return errorResponse(req.ID, dispatch.CodeInvalidRequest, "Invalid Request: method is required")
	}

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    Capabilities{Tools: ToolsCapability{ListChanged: false}},
			ServerInfo:      h.info,
		})
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": h.disp.Catalog().List()})
	case "tools/call":
		return h.handleToolCall(ctx, req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	default:
		return errorResponse(req.ID, dispatch.CodeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (h *Handler) handleToolCall(ctx context.Context, req Request) *Response {
	var params ToolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, dispatch.CodeInvalidParams, "Invalid params: "+err.Error())
		}
	}
	if params.Name == "" {
		return errorResponse(req.ID, dispatch.CodeInvalidParams, "Invalid params: name is required")
	}

	res := h.disp.Dispatch(ctx, dispatch.CallRequest{Operation: params.Name, Arguments: params.Arguments})
	if res.OK() {
		return resultResponse(req.ID, textResponse(res.Text))
	}

	f := res.Failure
	if h.mode == ToolErrorsAsResult && f.Kind != dispatch.KindUnknownOperation {
		tr := textResponse("Error: " + f.Message)
		tr.IsError = true
		return resultResponse(req.ID, tr)
	}
	return errorResponse(req.ID, dispatch.MapFailure(f.Kind).RPCCode, f.Message)
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, msg string) *Response {
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Error: &RPCError{Code: code, Message: msg}}
}
