// Package google is a small REST client for the Google Docs v1 and Drive v3
// APIs. It is the capability provider behind every tool the server exposes.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joseb33w/google-docs-mcp-server/internal/telemetry"
)

const (
	DefaultDocsBaseURL   = "https://docs.googleapis.com/v1"
	DefaultDriveBaseURL  = "https://www.googleapis.com/drive/v3"
	DefaultUploadBaseURL = "https://www.googleapis.com/upload/drive/v3"
)

// Config selects credentials and endpoints. AccessToken wins over a service
// account key; the base URLs default to the public Google endpoints.
type Config struct {
	AccessToken       string
	CredentialsFile   string
	ServiceAccountKey string
	Subject           string
	Scopes            []string
	HTTPTimeout       time.Duration

	DocsBaseURL   string
	DriveBaseURL  string
	UploadBaseURL string
	TokenURL      string
}

type Client struct {
	httpClient *http.Client
	tokens     tokenSource
	docsURL    string
	driveURL   string
	uploadURL  string
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := &http.Client{Timeout: timeout}

	var ts tokenSource
	switch {
	case strings.TrimSpace(cfg.AccessToken) != "":
		ts = staticToken(strings.TrimSpace(cfg.AccessToken))
	case cfg.ServiceAccountKey != "" || cfg.CredentialsFile != "":
		raw, err := loadServiceAccountKey(cfg.ServiceAccountKey, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		sa, err := newServiceAccount(raw, cfg.Subject, cfg.Scopes, cfg.TokenURL, hc)
		if err != nil {
			return nil, err
		}
		ts = sa
	default:
		return nil, errors.New("no Google credentials configured: set GOOGLE_ACCESS_TOKEN, GOOGLE_SERVICE_ACCOUNT_KEY or GOOGLE_APPLICATION_CREDENTIALS")
	}

	return &Client{
		httpClient: hc,
		tokens:     ts,
		docsURL:    strings.TrimRight(orDefault(cfg.DocsBaseURL, DefaultDocsBaseURL), "/"),
		driveURL:   strings.TrimRight(orDefault(cfg.DriveBaseURL, DefaultDriveBaseURL), "/"),
		uploadURL:  strings.TrimRight(orDefault(cfg.UploadBaseURL, DefaultUploadBaseURL), "/"),
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// APIError is a non-2xx response from a Google API. Error returns the
// message Google supplied so callers see it verbatim.
type APIError struct {
	Operation  string
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s HTTP %d", e.Operation, e.StatusCode)
}

type googleErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newAPIError(op string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{Operation: op, StatusCode: statusCode}
	var parsed googleErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
		apiErr.Status = parsed.Error.Status
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// send performs a single authorised request. Non-2xx responses are turned
// into *APIError and counted.
func (c *Client) send(ctx context.Context, op, method, rawURL string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.tokens.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("google auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return nil, fmt.Errorf("%s HTTP %d and read body failed: %w", op, resp.StatusCode, readErr)
	}
	telemetry.IncGoogleAPIError(op, resp.StatusCode)
	return nil, newAPIError(op, resp.StatusCode, raw)
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out
// (if non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, rawURL string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, op, method, rawURL, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func buildURL(base string, query url.Values, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(base)
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	if len(query) > 0 {
		sb.WriteByte('?')
		sb.WriteString(query.Encode())
	}
	return sb.String()
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// quoteQuery renders s as a single-quoted Drive query literal.
func quoteQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

func clampPageSize(n, def, max int) int {
	if n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
