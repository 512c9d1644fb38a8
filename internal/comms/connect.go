// Package comms binds the JSON-RPC protocol handler to NATS request/reply.
package comms

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const logPrefix = "comms:connect"

// Connect opens a NATS connection with reconnect handling and lifecycle
// logging.
func Connect(url, name string, timeout time.Duration) (*nats.Conn, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	slog.Info(fmt.Sprintf("%s - Connecting to NATS at %s as %s", logPrefix, url, name))

	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(timeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(60),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn(fmt.Sprintf("%s - NATS disconnected: %v", logPrefix, err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info(fmt.Sprintf("%s - NATS reconnected to %s", logPrefix, nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.Info(fmt.Sprintf("%s - NATS connection closed", logPrefix))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to connect to NATS: %w", logPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Connected to NATS at %s", logPrefix, nc.ConnectedUrl()))
	return nc, nil
}
