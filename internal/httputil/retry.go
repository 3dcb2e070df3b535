// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultBaseDelay is the first backoff wait when a Policy leaves BaseDelay
// unset.
const DefaultBaseDelay = 10 * time.Second

// MaxDelay bounds every wait, whether computed or asked for by Retry-After.
const MaxDelay = 5 * time.Minute

// Policy controls how a request is retried after HTTP 429 (Too Many
// Requests). The zero Policy makes exactly one attempt.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int

	// BaseDelay is the wait before the first retry; it doubles on every
	// further retry. A Retry-After header asking for longer wins.
	BaseDelay time.Duration

	// Timeout, when positive, bounds each attempt separately. Backoff waits
	// do not count against it.
	Timeout time.Duration

	// OnRetry, when set, is called before each backoff wait.
	OnRetry func(attempt int, wait time.Duration)
}

// Backoff returns the wait before retry number attempt (zero-based),
// capped at MaxDelay.
func (p Policy) Backoff(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if base >= MaxDelay {
		return MaxDelay
	}
	for i := 0; i < attempt; i++ {
		base *= 2
		if base >= MaxDelay {
			return MaxDelay
		}
	}
	return base
}

// Do executes req and retries it on HTTP 429 as p allows. Bodies of
// rejected responses are drained and closed before waiting. If ctx is
// cancelled during a wait, Do returns ctx.Err(). Once retries are exhausted
// the last 429 response is returned for the caller to inspect. With a
// Timeout set, the returned body stays readable until it is closed.
func Do(ctx context.Context, client *http.Client, req *http.Request, p Policy) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := p.attempt(ctx, client, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= p.MaxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := max(p.Backoff(attempt), retryAfter(resp))
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, wait)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// attempt sends one request, bounded by p.Timeout when it is set.
func (p Policy) attempt(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if p.Timeout <= 0 {
		return client.Do(req.Clone(ctx))
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	resp, err := client.Do(req.Clone(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody releases the attempt's context when the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// retryAfter returns the delay requested by a Retry-After header given in
// seconds, capped at MaxDelay, or zero when the header is absent or not a
// number.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.ParseInt(resp.Header.Get("Retry-After"), 10, 64)
	if errors.Is(err, strconv.ErrRange) && secs > 0 {
		return MaxDelay
	}
	if err != nil || secs < 0 {
		return 0
	}
	if secs >= int64(MaxDelay/time.Second) {
		return MaxDelay
	}
	return time.Duration(secs) * time.Second
}
