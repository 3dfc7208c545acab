package ump

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"park-locator-service/internal/domain"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestStaticToken(t *testing.T) {
	tok, err := StaticToken("  abc \n").CurrentToken(context.Background())
	if err != nil || tok != "abc" {
		t.Fatalf("token = %q, err = %v", tok, err)
	}
	if _, err := StaticToken("   ").CurrentToken(context.Background()); err == nil {
		t.Fatal("expected error for blank token")
	}
	if err := StaticToken("abc").ForceReLogin(context.Background()); !errors.Is(err, domain.ErrReLoginUnsupported) {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenFileAuthReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	if err := os.WriteFile(path, []byte("file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	a := NewTokenFileAuth("http://127.0.0.1:1", path, "", "", time.Second)
	tok, err := a.CurrentToken(context.Background())
	if err != nil || tok != "file-token" {
		t.Fatalf("token = %q, err = %v", tok, err)
	}
}

func TestTokenFileAuthMissingFileWithoutCredentials(t *testing.T) {
	a := NewTokenFileAuth("http://127.0.0.1:1", filepath.Join(t.TempDir(), "nope.txt"), "", "", time.Second)

	if _, err := a.CurrentToken(context.Background()); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	if err := a.ForceReLogin(context.Background()); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestTokenFileAuthLogsInAndStoresToken(t *testing.T) {
	var logins atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "alice" || creds["password"] != "secret" {
			t.Errorf("credentials = %v", creds)
		}
		logins.Add(1)
		writeJSONBody(w, http.StatusOK, `{"data": {"token": "fresh-token"}}`)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "var", "token.txt")
	a := NewTokenFileAuth(srv.URL, path, "alice", "secret", time.Second)

	tok, err := a.CurrentToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "fresh-token" {
		t.Fatalf("token = %q", tok)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("token file not written: %v", err)
	}
	if string(b) != "fresh-token" {
		t.Fatalf("token file = %q", b)
	}

	// Cached in the file now.
	if _, err := a.CurrentToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	if logins.Load() != 1 {
		t.Fatalf("logins = %d, want 1", logins.Load())
	}
}

func TestTokenFileAuthLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONBody(w, http.StatusForbidden, `{"error": "bad credentials"}`)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "token.txt")
	a := NewTokenFileAuth(srv.URL, path, "alice", "wrong", time.Second)

	err := a.ForceReLogin(context.Background())
	var se *domain.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 StatusError", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("token file should not exist, stat err = %v", err)
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		header http.Header
		want   string
	}{
		{"token", `{"token": "a"}`, nil, "a"},
		{"auth", `{"auth": " b "}`, nil, "b"},
		{"accessToken", `{"accessToken": "c"}`, nil, "c"},
		{"nested", `{"data": {"token": "d"}}`, nil, "d"},
		{"precedence", `{"token": "a", "accessToken": "c"}`, nil, "a"},
		{"header token", `{}`, http.Header{"Token": []string{"e"}}, "e"},
		{"header auth", `not json`, http.Header{"Auth": []string{"f"}}, "f"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := tc.header
			if h == nil {
				h = http.Header{}
			}
			got, err := extractToken([]byte(tc.body), h)
			if err != nil || got != tc.want {
				t.Fatalf("got %q, err = %v; want %q", got, err, tc.want)
			}
		})
	}

	if _, err := extractToken([]byte(`{"token": ""}`), http.Header{}); !errors.Is(err, domain.ErrTokenNotFoundInBody) {
		t.Fatalf("err = %v, want ErrTokenNotFoundInBody", err)
	}
}
