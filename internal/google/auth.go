package google

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const defaultTokenURL = "https://oauth2.googleapis.com/token"

// DefaultScopes grant read/write access to documents and Drive files.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/drive",
}

type tokenSource interface {
	token(ctx context.Context) (string, error)
}

type staticToken string

func (s staticToken) token(context.Context) (string, error) { return string(s), nil }

// serviceAccountKey is the subset of a Google service account JSON key file
// needed for the JWT bearer grant.
type serviceAccountKey struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

type serviceAccount struct {
	email      string
	keyID      string
	privateKey *rsa.PrivateKey
	tokenURL   string
	subject    string
	scopes     []string
	httpClient *http.Client

	mu    sync.Mutex
	tok   string
	expAt time.Time
}

func loadServiceAccountKey(inline, path string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	return raw, nil
}

func newServiceAccount(raw []byte, subject string, scopes []string, tokenURL string, hc *http.Client) (*serviceAccount, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("decode service account key: %w", err)
	}
	if key.Type != "" && key.Type != "service_account" {
		return nil, fmt.Errorf("unsupported credentials type %q", key.Type)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, errors.New("service account key is missing client_email or private_key")
	}

	block, _ := pem.Decode([]byte(key.PrivateKey))
	if block == nil {
		return nil, errors.New("no PEM block found in service account private_key")
	}
	pk, err := parseRSAPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	if tokenURL == "" {
		tokenURL = key.TokenURI
	}
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	return &serviceAccount{
		email:      key.ClientEmail,
		keyID:      key.PrivateKeyID,
		privateKey: pk,
		tokenURL:   tokenURL,
		subject:    subject,
		scopes:     scopes,
		httpClient: hc,
	}, nil
}

func parseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	pkcs8Key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := pkcs8Key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return rsaKey, nil
}

type assertionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Google rejects assertions valid for more than one hour.
func (s *serviceAccount) makeAssertion(now time.Time) (string, error) {
	claims := assertionClaims{
		Scope: strings.Join(s.scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.email,
			Subject:   s.subject,
			Audience:  jwt.ClaimStrings{s.tokenURL},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if s.keyID != "" {
		token.Header["kid"] = s.keyID
	}
	return token.SignedString(s.privateKey)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (s *serviceAccount) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok != "" && time.Now().Before(s.expAt.Add(-time.Minute)) {
		return s.tok, nil
	}

	assertion, err := s.makeAssertion(time.Now())
	if err != nil {
		return "", fmt.Errorf("sign JWT: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("access token HTTP %d: %s", resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("token response has no access_token")
	}

	s.tok = tok.AccessToken
	s.expAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.tok, nil
}
