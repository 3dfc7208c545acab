package ump

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/fsutil"
	"park-locator-service/internal/platform/logger"
	"strings"
	"sync"
	"time"
)

// StaticToken is an AuthProvider for a token supplied by the caller.
// It cannot re-login, so a 401 surfaces as an http error.
type StaticToken string

func (t StaticToken) CurrentToken(context.Context) (string, error) {
	tok := strings.TrimSpace(string(t))
	if tok == "" {
		return "", errors.New("static token is empty")
	}
	return tok, nil
}

func (StaticToken) ForceReLogin(context.Context) error {
	return domain.ErrReLoginUnsupported
}

// TokenFileAuth reads the bearer token from a file and refreshes it through
// the login endpoint when credentials are configured.
type TokenFileAuth struct {
	session  *http.Client
	baseURL  string
	path     string
	username string
	password string

	// Serializes logins so concurrent 401s do not stampede the login endpoint.
	mu sync.Mutex
}

func NewTokenFileAuth(baseURL, path, username, password string, timeout time.Duration) *TokenFileAuth {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &TokenFileAuth{
		session:  &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		path:     path,
		username: username,
		password: password,
	}
}

// CurrentToken returns the token stored in the file, logging in first when
// the file is missing or empty and credentials are available.
func (a *TokenFileAuth) CurrentToken(ctx context.Context) (string, error) {
	tok, err := a.readToken()
	if err == nil && tok != "" {
		return tok, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read token file %q: %w", a.path, err)
	}

	if !a.hasCredentials() {
		return "", fmt.Errorf("token file %q is missing or empty: %w", a.path, domain.ErrMissingCredentials)
	}

	if err := a.ForceReLogin(ctx); err != nil {
		return "", err
	}

	tok, err = a.readToken()
	if err != nil {
		return "", fmt.Errorf("read token file %q: %w", a.path, err)
	}
	return tok, nil
}

// ForceReLogin logs in with the configured credentials and rewrites the token file.
func (a *TokenFileAuth) ForceReLogin(ctx context.Context) error {
	if !a.hasCredentials() {
		return domain.ErrMissingCredentials
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tok, err := a.login(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := fsutil.WriteFileAtomic(a.path, []byte(tok), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	logger.L().Info("upstream_login_ok", "token_file", a.path)
	return nil
}

func (a *TokenFileAuth) hasCredentials() bool {
	return a.username != "" && a.password != ""
}

func (a *TokenFileAuth) readToken() (string, error) {
	b, err := os.ReadFile(a.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (a *TokenFileAuth) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": a.username,
		"password": a.password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/v1/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "UMPClient/1.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", a.baseURL)
	req.Header.Set("Referer", a.baseURL+"/")

	resp, err := doRequest(a.session, req, "login")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}

	return extractToken(body, resp.Header)
}

// extractToken looks for the token in the body (token, auth, accessToken,
// data.token) and then in the response headers.
func extractToken(body []byte, header http.Header) (string, error) {
	var data map[string]any
	if json.Unmarshal(body, &data) == nil {
		for _, k := range []string{"token", "auth", "accessToken"} {
			if s, ok := data[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), nil
			}
		}
		if inner, ok := data["data"].(map[string]any); ok {
			if s, ok := inner["token"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), nil
			}
		}
	}

	for _, k := range []string{"token", "auth"} {
		if s := strings.TrimSpace(header.Get(k)); s != "" {
			return s, nil
		}
	}

	return "", domain.ErrTokenNotFoundInBody
}
