package ump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"park-locator-service/internal/domain"
	"park-locator-service/internal/platform/logger"
	"park-locator-service/internal/platform/metrics"
	"strconv"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// retryPolicy bounds one upstream call.
// A 401 on any attempt but the last triggers a single re-login per call;
// the retry after it consumes an attempt. Other failures are retried with
// exponential backoff only when retryTransient is set.
type retryPolicy struct {
	maxAttempts    int
	retryTransient bool
}

var (
	searchPolicy = retryPolicy{maxAttempts: 2, retryTransient: false}
	onlinePolicy = retryPolicy{maxAttempts: 3, retryTransient: true}
)

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
	token string,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("auth", token)
	req.Header.Set("token", token)
	req.Header.Set("X-Timezone-Offset", c.tzOffset)
	req.Header.Set("Referer", c.baseURL+"/map")

	return req, nil
}

// doRequest executes req and converts non-2xx responses into *domain.StatusError.
func doRequest(session *http.Client, req *http.Request, endpoint string) (*http.Response, error) {
	start := time.Now()
	resp, err := session.Do(req)
	metrics.UpstreamDurationMs.WithLabelValues(endpoint).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "0").Inc()
		logger.L().Debug("upstream_transport_error", "endpoint", endpoint, "err", err)
		return nil, err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	logger.L().Debug("upstream_response", "endpoint", endpoint, "status", resp.StatusCode, "dur_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &domain.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// withRetry runs call under policy, handing it the current token on every attempt.
// A failed re-login does not end the call; the attempt is then treated like any
// other failure. After the final attempt the last error is returned, joined with
// the re-login error if there was one.
func (c *Client) withRetry(
	ctx context.Context,
	endpoint string,
	policy retryPolicy,
	call func(token string) error,
) error {
	backoff := c.backoff
	reloggedIn := false

	var lastErr, reloginErr error

	for attempt := 1; attempt <= policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		token, err := c.auth.CurrentToken(ctx)
		if err != nil {
			return fmt.Errorf("load token: %w", err)
		}

		err = call(token)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == policy.maxAttempts {
			break
		}

		var se *domain.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized && !reloggedIn {
			reloggedIn = true
			logger.L().Info("upstream_relogin", "endpoint", endpoint, "attempt", attempt)
			rerr := c.auth.ForceReLogin(ctx)
			if rerr == nil {
				metrics.ReLoginTotal.WithLabelValues("ok").Inc()
				continue
			}
			metrics.ReLoginTotal.WithLabelValues("error").Inc()
			logger.L().Warn("upstream_relogin_failed", "endpoint", endpoint, "err", rerr)
			reloginErr = fmt.Errorf("re-login: %w", rerr)
		}

		if !policy.retryTransient {
			break
		}

		logger.L().Warn("upstream_retry", "endpoint", endpoint, "attempt", attempt, "backoff_ms", backoff.Milliseconds(), "err", err)

		if err := c.sleep(ctx, backoff); err != nil {
			return err
		}

		backoff *= 2
	}

	if reloginErr != nil {
		return errors.Join(lastErr, reloginErr)
	}
	return lastErr
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
