// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/inspire-refs/pkg/types"
)

func init() {
	retryBaseDelay = time.Millisecond
}

// withServer points the fetcher at ts for the duration of the test.
func withServer(t *testing.T, ts *httptest.Server) {
	t.Helper()
	old := baseURLOverride
	baseURLOverride = ts.URL
	t.Cleanup(func() {
		baseURLOverride = old
		ts.Close()
	})
}

func TestRecordURL(t *testing.T) {
	f := New(nil, types.FetchConfig{})
	assert.Equal(t, "https://inspirehep.net/api/literature/1124337/?format=cv", f.RecordURL("1124337"))

	f = New(nil, types.FetchConfig{Host: "inspire.example.org"})
	assert.Equal(t, "https://inspire.example.org/api/literature/a%2Fb/?format=cv", f.RecordURL("a/b"))
}

func TestNewDefaults(t *testing.T) {
	cfg := New(nil, types.FetchConfig{}).Config()
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.MaxBodyBytes)
	assert.Equal(t, 0, cfg.MaxRetries)
}

func TestFetchSuccess(t *testing.T) {
	var gotPath, gotQuery, gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<p><b><a href='/x'>Title</a></b></p>")
	}))
	withServer(t, ts)

	f := New(ts.Client(), types.FetchConfig{HTTPConfig: types.HTTPConfig{UserAgent: "test-agent/1.0"}})
	body, err := f.Fetch(context.Background(), "1124337")
	require.NoError(t, err)

	assert.Contains(t, string(body), "Title")
	assert.Equal(t, "/api/literature/1124337/", gotPath)
	assert.Equal(t, "format=cv", gotQuery)
	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "text/html", gotAccept)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		cfg        types.FetchConfig
		wantStatus int
		wantMsg    string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "HTTP 404 from",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "HTTP 500 from",
		},
		{
			name: "body too large",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, strings.Repeat("x", 64))
			},
			cfg:     types.FetchConfig{MaxBodyBytes: 16},
			wantMsg: "body exceeds 16 bytes",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			cfg:     types.FetchConfig{HTTPConfig: types.HTTPConfig{Timeout: 50 * time.Millisecond}},
			wantMsg: "HTTP request to",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			withServer(t, ts)

			_, err := New(ts.Client(), tt.cfg).Fetch(context.Background(), "42")
			require.Error(t, err)

			assert.True(t, IsNetworkError(err))
			assert.Equal(t, tt.wantStatus, StatusCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			var ne *NetworkError
			require.True(t, errors.As(err, &ne))
			assert.Equal(t, types.RecordID("42"), ne.ID)
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	withServer(t, ts)
	client := ts.Client()
	ts.Close()

	_, err := New(client, types.FetchConfig{}).Fetch(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestFetchSingleAttemptByDefault(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	withServer(t, ts)

	_, err := New(ts.Client(), types.FetchConfig{}).Fetch(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRetriesWhenConfigured(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "<p>ok</p>")
	}))
	withServer(t, ts)

	body, err := New(ts.Client(), types.FetchConfig{MaxRetries: 2}).Fetch(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchRetriesOutlastTimeout(t *testing.T) {
	old := retryBaseDelay
	retryBaseDelay = 100 * time.Millisecond
	t.Cleanup(func() { retryBaseDelay = old })

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "<p>ok</p>")
	}))
	withServer(t, ts)

	// Waits of 100ms and 200ms together exceed the 250ms timeout.
	cfg := types.FetchConfig{HTTPConfig: types.HTTPConfig{Timeout: 250 * time.Millisecond}, MaxRetries: 3}
	body, err := New(ts.Client(), cfg).Fetch(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNetworkErrorUnwrap(t *testing.T) {
	ne := &NetworkError{ID: "1", URL: "http://x", Err: context.DeadlineExceeded}
	wrapped := fmt.Errorf("record 1: %w", ne)

	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
	assert.True(t, IsNetworkError(wrapped))
	assert.False(t, IsNetworkError(errors.New("plain")))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
