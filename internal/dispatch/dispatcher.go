// Package dispatch resolves a named operation against the catalog, prepares
// its arguments and invokes the bound provider method.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
	"github.com/joseb33w/google-docs-mcp-server/internal/telemetry"
)

type Dispatcher struct {
	catalog   *catalog.Catalog
	cell      *ProviderCell
	validator *argumentValidator
	observers []Observer
	logger    *slog.Logger
	strict    bool
}

type Option func(*Dispatcher)

// WithStrictArguments validates arguments against the operation schema
// before the provider is touched.
func WithStrictArguments(strict bool) Option {
	return func(d *Dispatcher) { d.strict = strict }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func New(cat *catalog.Catalog, cell *ProviderCell, opts ...Option) (*Dispatcher, error) {
	if cat == nil || cell == nil {
		return nil, errors.New("dispatch: catalog and provider cell are required")
	}
	d := &Dispatcher{catalog: cat, cell: cell, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	if d.strict {
		v, err := newArgumentValidator(cat)
		if err != nil {
			return nil, err
		}
		d.validator = v
	}
	return d, nil
}

func (d *Dispatcher) Catalog() *catalog.Catalog { return d.catalog }

// ProviderState reports the lifecycle state of the lazily built provider.
func (d *Dispatcher) ProviderState() CellState { return d.cell.State() }

// Dispatch runs one call to completion. It never panics and never returns a
// Go error: every outcome is a CallResult. Caller cancellation is ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, req CallRequest) CallResult {
	ctx = context.WithoutCancel(ctx)
	callID := uuid.NewString()
	ctx = context.WithValue(ctx, callIDKey, callID)

	start := time.Now()
	res := d.dispatch(ctx, req)
	d.finish(ctx, callID, req, res, start)
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, req CallRequest) CallResult {
	desc, ok := d.catalog.Lookup(req.Operation)
	if !ok {
		return failure(KindUnknownOperation, "Unknown tool: "+req.Operation)
	}
	inv, ok := bindings[desc.Name]
	if !ok {
		return failure(KindUnknownOperation, "Unknown tool: "+req.Operation)
	}

	args := applyDefaults(desc.InputSchema, req.Arguments)
	if d.strict {
		if err := d.validator.validate(desc.Name, args); err != nil {
			return failure(KindInvalidArguments, err.Error())
		}
	}

	fn, err := inv(args)
	if err != nil {
		return failure(KindInvalidArguments, err.Error())
	}

	p, err := d.cell.Get()
	if err != nil {
		return failure(KindInitializationFailure, "provider initialization failed: "+err.Error())
	}

	payload, err := invoke(ctx, fn, p)
	if err != nil {
		return failure(KindProviderFailure, err.Error())
	}
	return success(payload)
}

func invoke(ctx context.Context, fn call, p Provider) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload, err = nil, fmt.Errorf("provider panic: %v", r)
		}
	}()
	return fn(ctx, p)
}

func (d *Dispatcher) finish(ctx context.Context, callID string, req CallRequest, res CallResult, start time.Time) {
	elapsed := time.Since(start)
	transport := TransportFrom(ctx)

	tool := req.Operation
	status := "ok"
	if res.Failure != nil {
		status = string(res.Failure.Kind)
		if res.Failure.Kind == KindUnknownOperation {
			tool = "unknown"
		}
	}
	telemetry.IncToolCall(tool, status)
	telemetry.ObserveToolDuration(tool, elapsed)

	rec := CallRecord{
		CallID:    callID,
		Transport: transport,
		Operation: req.Operation,
		Arguments: req.Arguments,
		Result:    res,
		Duration:  elapsed,
		At:        start.UTC(),
	}
	for _, o := range d.observers {
		o.ObserveCall(ctx, rec)
	}

	attrs := []any{
		"call_id", callID,
		"transport", transport,
		"tool_name", req.Operation,
		"duration_ms", elapsed.Milliseconds(),
	}
	if res.Failure != nil {
		attrs = append(attrs, "kind", string(res.Failure.Kind), "err", res.Failure.Message)
		d.logger.Warn("tool call failed", attrs...)
		return
	}
	d.logger.Info("tool call completed", attrs...)
}
