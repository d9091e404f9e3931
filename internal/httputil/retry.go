// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil retries requests against archives that rate-limit or
// are briefly unavailable.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff interval. Tests override this to
// avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5
	maxRetryAfter     = 5 * time.Minute
)

// Retryable reports whether a status code is worth retrying: 429 and the
// transient 5xx gateway and availability errors.
func Retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes req and retries retryable responses. The wait is
// the server's Retry-After value when it gives one in seconds, otherwise
// RetryBaseDelay doubled per attempt. Each retry is reported on w.
//
// When maxRetries is 0 the default (5) is used. After exhausting retries
// the last response is returned so the caller can inspect it. If ctx is
// cancelled while waiting the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, w io.Writer) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		fmt.Fprintf(w, "HTTP %d from %s, retrying in %v (attempt %d/%d)\n",
			resp.StatusCode, req.URL.Host, wait, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	return RetryBaseDelay << attempt
}
