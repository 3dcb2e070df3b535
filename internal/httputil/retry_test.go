// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusServer answers with statuses[i] on the i-th call and repeats the
// last status afterwards.
func statusServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDo(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", []int{200}, 5, 200, 1},
		{"zero policy is single attempt", []int{429}, 0, 429, 1},
		{"negative retries is single attempt", []int{429}, -2, 429, 1},
		{"retries then success", []int{429, 429, 200}, 5, 200, 3},
		{"exhausts retries", []int{429}, 3, 429, 4},
		{"other errors pass through", []int{500}, 5, 500, 1},
		{"404 is not retried", []int{404, 200}, 5, 404, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := statusServer(t, tt.statuses...)
			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			p := Policy{MaxRetries: tt.maxRetries, BaseDelay: time.Millisecond}
			resp, err := Do(context.Background(), ts.Client(), req, p)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoOnRetry(t *testing.T) {
	ts, _ := statusServer(t, 429, 429, 200)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var attempts []int
	var waits []time.Duration
	p := Policy{
		MaxRetries: 4,
		BaseDelay:  time.Millisecond,
		OnRetry: func(attempt int, wait time.Duration) {
			attempts = append(attempts, attempt)
			waits = append(waits, wait)
		},
	}
	resp, err := Do(context.Background(), ts.Client(), req, p)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []int{1, 2}, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
}

func TestDoContextCancelledDuringWait(t *testing.T) {
	ts, calls := statusServer(t, 429)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = Do(ctx, ts.Client(), req, Policy{MaxRetries: 5, BaseDelay: 500 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestDoTimeoutIsPerAttempt(t *testing.T) {
	ts, calls := statusServer(t, 429, 429, 200)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	// The two waits (60ms + 120ms) add up to well over the timeout.
	p := Policy{MaxRetries: 3, BaseDelay: 60 * time.Millisecond, Timeout: 100 * time.Millisecond}
	resp, err := Do(context.Background(), ts.Client(), req, p)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestDoTimeoutBoundsSlowAttempt(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(ts.Close)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = Do(context.Background(), ts.Client(), req, Policy{Timeout: 50 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoTimeoutKeepsBodyReadable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("hello"))
	}))
	t.Cleanup(ts.Close)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := Do(context.Background(), ts.Client(), req, Policy{Timeout: time.Second})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "hello", string(body))
}

func TestPolicyBackoff(t *testing.T) {
	assert.Equal(t, DefaultBaseDelay, Policy{}.Backoff(0))
	assert.Equal(t, 40*time.Second, Policy{}.Backoff(2))

	p := Policy{BaseDelay: 250 * time.Millisecond}
	assert.Equal(t, 250*time.Millisecond, p.Backoff(0))
	assert.Equal(t, time.Second, p.Backoff(2))
}

func TestPolicyBackoffCapped(t *testing.T) {
	for _, attempt := range []int{5, 30, 63, 64, 1000} {
		got := Policy{}.Backoff(attempt)
		assert.Equal(t, MaxDelay, got, "attempt %d", attempt)
	}
	assert.Equal(t, MaxDelay, Policy{BaseDelay: time.Hour}.Backoff(0))
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "3", 3 * time.Second},
		{"http date ignored", "Wed, 21 Oct 2026 07:28:00 GMT", 0},
		{"negative ignored", "-1", 0},
		{"large capped", "86400", MaxDelay},
		{"overflow capped", "99999999999999999999999", MaxDelay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, retryAfter(resp))
		})
	}
}
