// Package db persists the tool call audit log in PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the underlying *sql.DB and provides typed query methods.
type DB struct {
	conn *sql.DB
}

// New opens a PostgreSQL connection, verifies connectivity and applies
// pending migrations.
func New(databaseURL string) (*DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := ApplyMigrations(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// ToolCall is one audited dispatch.
type ToolCall struct {
	CallID       string          `json:"call_id"`
	Transport    string          `json:"transport"`
	ToolName     string          `json:"tool_name"`
	Arguments    json.RawMessage `json:"arguments"`
	Status       string          `json:"status"`
	FailureKind  *string         `json:"failure_kind,omitempty"`
	Message      *string         `json:"message,omitempty"`
	EvidenceHash string          `json:"evidence_hash"`
	DurationMS   int64           `json:"duration_ms"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (d *DB) InsertToolCall(ctx context.Context, tc *ToolCall) error {
	args := tc.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO tool_calls (call_id, transport, tool_name, arguments, status, failure_kind, message, evidence_hash, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		tc.CallID, tc.Transport, tc.ToolName, string(args), tc.Status, tc.FailureKind, tc.Message, tc.EvidenceHash, tc.DurationMS, tc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tool_call: %w", err)
	}
	return nil
}

// ListToolCalls returns the most recent calls, newest first. An empty
// toolName matches every tool.
func (d *DB) ListToolCalls(ctx context.Context, toolName string, limit int) ([]*ToolCall, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	rows, err := d.conn.QueryContext(ctx,
		`SELECT call_id, transport, tool_name, arguments, status, failure_kind, message, evidence_hash, duration_ms, created_at
		 FROM tool_calls
		 WHERE ($1 = '' OR tool_name = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`, toolName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list tool_calls: %w", err)
	}
	defer rows.Close()

	var tcs []*ToolCall
	for rows.Next() {
		tc := &ToolCall{}
		var args []byte
		if err := rows.Scan(&tc.CallID, &tc.Transport, &tc.ToolName, &args, &tc.Status, &tc.FailureKind, &tc.Message, &tc.EvidenceHash, &tc.DurationMS, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tool_call: %w", err)
		}
		tc.Arguments = json.RawMessage(args)
		tcs = append(tcs, tc)
	}
	return tcs, rows.Err()
}
