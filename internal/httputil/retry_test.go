// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// statusSequence serves the given codes in order, repeating the last.
func statusSequence(codes ...int) (*httptest.Server, *int32) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		if n > len(codes) {
			n = len(codes)
		}
		w.WriteHeader(codes[n-1])
	}))
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		codes      []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", []int{200}, 5, 200, 1},
		{"rate limited then success", []int{429, 429, 200}, 5, 200, 3},
		{"unavailable then success", []int{503, 200}, 5, 200, 2},
		{"gateway timeout then success", []int{504, 502, 200}, 5, 200, 3},
		{"exhausts retries", []int{429}, 3, 429, 4},
		{"default retries", []int{429}, 0, 429, 6},
		{"not found passes through", []int{404}, 5, 404, 1},
		{"server error passes through", []int{500}, 5, 500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := statusSequence(tt.codes...)
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			var log bytes.Buffer
			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries, &log)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
			assert.Equal(t, int(tt.wantCalls)-1, strings.Count(log.String(), "retrying in"))
		})
	}
}

func TestDoWithRetryContextCancelled(t *testing.T) {
	ts, _ := statusSequence(429)
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBackoff(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Second
	defer func() { RetryBaseDelay = old }()

	assert.Equal(t, time.Second, backoff(0, ""))
	assert.Equal(t, 4*time.Second, backoff(2, ""))
	assert.Equal(t, 7*time.Second, backoff(2, "7"))
	assert.Equal(t, 0*time.Second, backoff(3, "0"))
	assert.Equal(t, maxRetryAfter, backoff(0, "86400"))
	assert.Equal(t, 2*time.Second, backoff(1, "Wed, 21 Oct 2015 07:28:00 GMT"))
}
