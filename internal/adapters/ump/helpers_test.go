package ump

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeAuth hands out "tok-<n>" where n is the number of re-logins so far.
type fakeAuth struct {
	mu         sync.Mutex
	relogins   int
	reloginErr error
}

func (f *fakeAuth) CurrentToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return tokenFor(f.relogins), nil
}

func (f *fakeAuth) ForceReLogin(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reloginErr != nil {
		return f.reloginErr
	}
	f.relogins++
	return nil
}

func (f *fakeAuth) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.relogins
}

func tokenFor(n int) string {
	return "tok-" + string(rune('0'+n))
}

func newTestClient(t *testing.T, h http.Handler, auth *fakeAuth) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{
		BaseURL:        srv.URL,
		Timeout:        5 * time.Second,
		TimezoneOffset: "180",
		RetryBackoff:   time.Millisecond,
	}, auth)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

// recordSleeps replaces the client's backoff wait with one that only records
// the requested durations.
func recordSleeps(c *Client) *[]time.Duration {
	var mu sync.Mutex
	waits := []time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		waits = append(waits, d)
		return ctx.Err()
	}
	return &waits
}

func writeJSONBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
