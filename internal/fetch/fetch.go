// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves CV-format citation documents from the INSPIRE
// literature API, one request per record identifier.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/inspire-refs/internal/httputil"
	"github.com/pdiddy/inspire-refs/internal/logger"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

const (
	DefaultHost         = "inspirehep.net"
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "inspire-refs/0.1"
	DefaultMaxBodyBytes = 10 * 1024 * 1024
)

// baseURLOverride replaces "https://<host>" when set. Tests point it at an
// httptest server.
var baseURLOverride = ""

// retryBaseDelay is the first wait after an HTTP 429 when retries are enabled.
var retryBaseDelay = httputil.DefaultBaseDelay

// Fetcher performs GET requests for CV-format records.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	log    logger.Logger
}

// New returns a Fetcher for cfg, filling unset fields with defaults. A nil
// client gets one with cfg.Timeout.
func New(client *http.Client, cfg types.FetchConfig) *Fetcher {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{client: client, cfg: cfg, log: logger.NewNop()}
}

// WithLogger sets the logger used to report rate-limit retries and returns f.
func (f *Fetcher) WithLogger(l logger.Logger) *Fetcher {
	if l != nil {
		f.log = l
	}
	return f
}

// Config returns the effective configuration.
func (f *Fetcher) Config() types.FetchConfig { return f.cfg }

// RecordURL returns the CV-format URL for id.
func (f *Fetcher) RecordURL(id types.RecordID) string {
	base := baseURLOverride
	if base == "" {
		base = "https://" + f.cfg.Host
	}
	return fmt.Sprintf("%s/api/literature/%s/?format=cv", base, url.PathEscape(string(id)))
}

// Fetch retrieves the raw document for id. The configured timeout applies to
// each attempt, not to the rate-limit waits between them. Every failure is a
// *NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, id types.RecordID) ([]byte, error) {
	recordURL := f.RecordURL(id)
	fail := func(status int, err error) error {
		return &NetworkError{ID: id, URL: recordURL, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, recordURL, nil)
	if err != nil {
		return nil, fail(0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html")

	policy := httputil.Policy{
		MaxRetries: f.cfg.MaxRetries,
		BaseDelay:  retryBaseDelay,
		Timeout:    f.cfg.Timeout,
		OnRetry: func(attempt int, wait time.Duration) {
			f.log.Info("rate limited, retrying",
				logger.String("id", string(id)),
				logger.Int("attempt", attempt),
				logger.Duration("wait", wait))
		},
	}
	resp, err := httputil.Do(ctx, f.client, req, policy)
	if err != nil {
		return nil, fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fail(0, fmt.Errorf("reading body: %w", err))
	}
	if int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, fail(0, fmt.Errorf("body exceeds %d bytes", f.cfg.MaxBodyBytes))
	}
	return body, nil
}
