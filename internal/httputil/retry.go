// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client and rate-limit backoff shared by
// network search providers.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/search-refiner/internal/logger"
)

// RetryBaseDelay is the first backoff step after an HTTP 429. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxBackoff caps a single wait, including one requested by Retry-After.
const maxBackoff = 2 * time.Minute

const defaultMaxRetries = 5

// DoWithRetry sends req and, while the server answers 429 Too Many
// Requests, waits and sends it again. The wait honors a numeric
// Retry-After header and otherwise doubles from RetryBaseDelay.
//
// Only 429 is retried. Transport errors return immediately so the caller
// can report the provider as unavailable. When retries run out the last
// 429 response is returned for the caller to inspect. A cancelled context
// during a wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Log.WithField("attempt", attempt+1).WithField("wait", wait).
			Warn("rate limited by search provider")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxBackoff)
	}
	if attempt >= 16 {
		return maxBackoff
	}
	return min(RetryBaseDelay<<attempt, maxBackoff)
}
