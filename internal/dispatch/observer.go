package dispatch

import (
	"context"
	"time"
)

// CallRecord summarises one completed dispatch.
type CallRecord struct {
	CallID    string
	Transport string
	Operation string
	Arguments map[string]any
	Result    CallResult
	Duration  time.Duration
	At        time.Time
}

// Observer is notified after every dispatch. Observers run synchronously on
// the calling goroutine and must not block for long.
type Observer interface {
	ObserveCall(ctx context.Context, rec CallRecord)
}

type ObserverFunc func(ctx context.Context, rec CallRecord)

func (f ObserverFunc) ObserveCall(ctx context.Context, rec CallRecord) { f(ctx, rec) }
