package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/joseb33w/google-docs-mcp-server/internal/db"
	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
)

const auditWriteTimeout = 5 * time.Second

// ToolCallStore persists audit records. *db.DB implements it.
type ToolCallStore interface {
	InsertToolCall(ctx context.Context, tc *db.ToolCall) error
}

// AuditService records every dispatched call with a SHA-256 evidence hash
// over its arguments and outcome. Write failures are logged and never fail
// the call.
type AuditService struct {
	store  ToolCallStore
	logger *slog.Logger
}

func NewAuditService(store ToolCallStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{store: store, logger: logger}
}

var _ dispatch.Observer = (*AuditService)(nil)

func (a *AuditService) ObserveCall(ctx context.Context, rec dispatch.CallRecord) {
	tc, err := BuildToolCall(rec)
	if err != nil {
		a.logger.Error("audit record build failed", "call_id", rec.CallID, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, auditWriteTimeout)
	defer cancel()
	if err := a.store.InsertToolCall(ctx, tc); err != nil {
		a.logger.Error("audit write failed", "call_id", rec.CallID, "tool_name", rec.Operation, "err", err)
	}
}

// BuildToolCall converts a dispatch record into its audit row.
func BuildToolCall(rec dispatch.CallRecord) (*db.ToolCall, error) {
	args := rec.Arguments
	if args == nil {
		args = map[string]any{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	tc := &db.ToolCall{
		CallID:     rec.CallID,
		Transport:  rec.Transport,
		ToolName:   rec.Operation,
		Arguments:  argsJSON,
		Status:     "ok",
		DurationMS: rec.Duration.Milliseconds(),
		CreatedAt:  rec.At,
	}

	outcome := []byte(rec.Result.Text)
	if f := rec.Result.Failure; f != nil {
		kind, msg := string(f.Kind), f.Message
		tc.Status = "fail"
		tc.FailureKind = &kind
		tc.Message = &msg
		outcome = []byte(kind + ":" + msg)
	}

	evidence := sha256.Sum256(append(argsJSON, outcome...))
	tc.EvidenceHash = hex.EncodeToString(evidence[:])
	return tc, nil
}
