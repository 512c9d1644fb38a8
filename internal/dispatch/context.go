package dispatch

import "context"

type ctxKey string

const (
	transportKey ctxKey = "transport"
	callIDKey    ctxKey = "call_id"
)

// WithTransport labels calls made with ctx with the name of the transport
// that received them.
func WithTransport(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, transportKey, name)
}

func TransportFrom(ctx context.Context) string {
	if v, ok := ctx.Value(transportKey).(string); ok {
		return v
	}
	return "unknown"
}

// CallIDFrom returns the id the dispatcher assigned to the in-flight call.
func CallIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(callIDKey).(string)
	return v
}
