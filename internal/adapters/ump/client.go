package ump

import (
	"context"
	"errors"
	"net/http"
	"park-locator-service/internal/ports"
	"strings"
	"time"
)

const (
	defaultUserAgent    = "UMPProbe/1.3"
	defaultRetryBackoff = 300 * time.Millisecond
	defaultTimeout      = 20 * time.Second
)

// ClientConfig holds the upstream connection settings.
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	TimezoneOffset string
	UserAgent      string
	// Delay before the first transient retry; doubles on each further retry.
	RetryBackoff time.Duration
}

// Client talks to the UMP tracking API.
//
// It implements both ports.VehicleLocator and ports.PositionFetcher and owns
// its HTTP session; the bearer token comes from the injected AuthProvider.
// The client is safe for concurrent use.
type Client struct {
	session   *http.Client
	auth      ports.AuthProvider
	baseURL   string
	tzOffset  string
	userAgent string
	backoff   time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig, auth ports.AuthProvider) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ump client: base url is empty")
	}
	if auth == nil {
		return nil, errors.New("ump client: auth provider is nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	tz := cfg.TimezoneOffset
	if tz == "" {
		tz = "180"
	}

	return &Client{
		session:   &http.Client{Timeout: timeout},
		auth:      auth,
		baseURL:   baseURL,
		tzOffset:  tz,
		userAgent: userAgent,
		backoff:   backoff,
		sleep:     sleepCtx,
	}, nil
}
