package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseb33w/google-docs-mcp-server/internal/comms"
	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
	httpsvr "github.com/joseb33w/google-docs-mcp-server/internal/http"
	"github.com/joseb33w/google-docs-mcp-server/internal/mcp"
)

const shutdownTimeout = 15 * time.Second

func newStdioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout (and MCP_LISTEN over TCP when set)",
		RunE:  runStdio,
	}
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	h := a.handler(mcp.ToolErrorsAsResult)
	srv := mcp.NewServer(h, cfg.MCPListen, cfg.MCPMaxMessageBytes, logger)

	errCh := make(chan error, 2)
	if cfg.MCPListen != "" {
		go func() { errCh <- srv.ListenAndServe() }()
	}
	go func() {
		ctx := dispatch.WithTransport(context.Background(), "stdio")
		err := srv.ServeStream(ctx, os.Stdin, os.Stdout)
		if err == nil {
			logger.Info("stdin closed")
		}
		errCh <- err
	}()

	return waitAndShutdown(logger, errCh, srv.Shutdown)
}

func newHTTPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over HTTP POST /mcp with health and metrics endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := httpsvr.NewServer(cfg.HTTPListenAddr(), a.handler(mcp.ToolErrorsAsEnvelope), cfg.HTTPMaxBodyBytes, logger)
			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
					return
				}
				errCh <- nil
			}()
			return waitAndShutdown(logger, errCh, srv.Shutdown)
		},
	}
}

func newNATSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nats",
		Short: "Serve MCP as a NATS request/reply service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			nc, err := comms.Connect(cfg.NATSURL, cfg.NATSClientName, cfg.NATSConnectTimeout)
			if err != nil {
				return err
			}
			defer nc.Close()

			srv := comms.NewServer(nc, a.handler(mcp.ToolErrorsAsEnvelope), cfg.NATSSubject, cfg.NATSQueue, logger)
			if err := srv.Start(); err != nil {
				return err
			}
			return waitAndShutdown(logger, make(chan error), srv.Shutdown)
		},
	}
}

// waitAndShutdown blocks until a signal arrives or a server exits, then
// shuts down with a bounded grace period.
func waitAndShutdown(logger *slog.Logger, errCh <-chan error, shutdown func(context.Context) error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case runErr = <-errCh:
		if runErr != nil {
			logger.Error("server error", "err", runErr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
	return runErr
}
