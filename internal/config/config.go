// Package config provides server configuration loaded from environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/joseb33w/google-docs-mcp-server/internal/google"
)

const logPrefix = "config:LoadConfig"

type Config struct {
	ServerName    string `envconfig:"SERVER_NAME" default:"google-docs-mcp"`
	ServerVersion string `envconfig:"SERVER_VERSION" default:"1.0.0"`

	// HTTP transport. HTTP_ADDR wins over PORT when both are set.
	HTTPAddr         string `envconfig:"HTTP_ADDR"`
	Port             int    `envconfig:"PORT" default:"3000"`
	HTTPMaxBodyBytes int64  `envconfig:"HTTP_MAX_BODY_BYTES" default:"1048576"`

	// Line transport. MCPListen additionally serves it over TCP.
	MCPListen          string `envconfig:"MCP_LISTEN"`
	MCPMaxMessageBytes int    `envconfig:"MCP_MAX_MESSAGE_BYTES" default:"4194304"`

	// NATS transport
	NATSURL            string        `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSSubject        string        `envconfig:"NATS_SUBJECT" default:"docs.mcp.v1"`
	NATSQueue          string        `envconfig:"NATS_QUEUE"`
	NATSClientName     string        `envconfig:"NATS_CLIENT_NAME" default:"google-docs-mcp"`
	NATSConnectTimeout time.Duration `envconfig:"NATS_CONNECT_TIMEOUT" default:"10s"`

	// Google credentials: a static access token, or a service account key
	// given inline or as a file path.
	GoogleAccessToken       string        `envconfig:"GOOGLE_ACCESS_TOKEN"`
	GoogleCredentialsFile   string        `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	GoogleServiceAccountKey string        `envconfig:"GOOGLE_SERVICE_ACCOUNT_KEY"`
	GoogleSubject           string        `envconfig:"GOOGLE_IMPERSONATE_SUBJECT"`
	GoogleScopes            []string      `envconfig:"GOOGLE_SCOPES"`
	GoogleHTTPTimeout       time.Duration `envconfig:"GOOGLE_HTTP_TIMEOUT" default:"30s"`

	// Tool policy
	ToolAllowlist   string `envconfig:"TOOL_ALLOWLIST"`
	ToolDenylist    string `envconfig:"TOOL_DENYLIST"`
	StrictArguments bool   `envconfig:"STRICT_ARGUMENTS" default:"false"`

	// Audit log; empty disables it.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that envconfig cannot express. Google credentials
// are not checked here: the provider is built lazily and reports missing
// credentials on first use.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("%s - PORT must be between 1 and 65535", logPrefix)
	}
	if c.HTTPMaxBodyBytes <= 0 {
		return fmt.Errorf("%s - HTTP_MAX_BODY_BYTES must be positive", logPrefix)
	}
	if c.MCPMaxMessageBytes <= 0 {
		return fmt.Errorf("%s - MCP_MAX_MESSAGE_BYTES must be positive", logPrefix)
	}
	if c.GoogleHTTPTimeout <= 0 {
		return fmt.Errorf("%s - GOOGLE_HTTP_TIMEOUT must be positive", logPrefix)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%s - LOG_FORMAT must be json or text", logPrefix)
	}
	return nil
}

// HTTPListenAddr returns HTTP_ADDR, or all interfaces on PORT.
func (c *Config) HTTPListenAddr() string {
	if c.HTTPAddr != "" {
		return c.HTTPAddr
	}
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.Port))
}

// Google returns the provider configuration.
func (c *Config) Google() google.Config {
	return google.Config{
		AccessToken:       c.GoogleAccessToken,
		CredentialsFile:   c.GoogleCredentialsFile,
		ServiceAccountKey: c.GoogleServiceAccountKey,
		Subject:           c.GoogleSubject,
		Scopes:            c.GoogleScopes,
		HTTPTimeout:       c.GoogleHTTPTimeout,
	}
}

// Logger builds the process logger. w is stderr in production; stdout is
// reserved for the stdio transport.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.LogFormat) == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
