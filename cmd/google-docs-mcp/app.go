package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
	"github.com/joseb33w/google-docs-mcp-server/internal/config"
	"github.com/joseb33w/google-docs-mcp-server/internal/core"
	"github.com/joseb33w/google-docs-mcp-server/internal/db"
	"github.com/joseb33w/google-docs-mcp-server/internal/dispatch"
	"github.com/joseb33w/google-docs-mcp-server/internal/google"
	"github.com/joseb33w/google-docs-mcp-server/internal/mcp"
)

// app is the transport independent part of the server: the filtered
// catalog, the lazily built Google provider and the optional audit store.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	dispatcher *dispatch.Dispatcher
	database   *db.DB
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	// stdout carries the stdio transport.
	return cfg, cfg.Logger(os.Stderr), nil
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	policy := core.NewPolicy(cfg.ToolAllowlist, cfg.ToolDenylist)
	cat := policy.FilterCatalog(catalog.Default())

	googleCfg := cfg.Google()
	cell := dispatch.NewProviderCell(func() (dispatch.Provider, error) {
		client, err := google.NewClient(googleCfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	opts := []dispatch.Option{
		dispatch.WithStrictArguments(cfg.StrictArguments),
		dispatch.WithLogger(logger),
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.DatabaseURL != "" {
		database, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		a.database = database
		opts = append(opts, dispatch.WithObserver(core.NewAuditService(database, logger)))
	}

	d, err := dispatch.New(cat, cell, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.dispatcher = d

	logger.Info("effective config",
		"server", cfg.ServerName,
		"version", cfg.ServerVersion,
		"tools", cat.Len(),
		"strict_arguments", cfg.StrictArguments,
		"audit", a.database != nil,
	)
	return a, nil
}

func (a *app) handler(mode mcp.ToolErrorMode) *mcp.Handler {
	info := mcp.ServerInfo{Name: a.cfg.ServerName, Version: a.cfg.ServerVersion}
	return mcp.NewHandler(a.dispatcher, info, mode, a.logger)
}

func (a *app) Close() {
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Warn("database close failed", "err", err)
		}
	}
}
