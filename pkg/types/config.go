package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "inspire-refs/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for retrieving CV-format records.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Host is the literature API host (default "inspirehep.net").
	Host string `json:"host" yaml:"host"`

	// MaxRetries is the number of retries on HTTP 429. Zero means a single
	// attempt per identifier.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxBodyBytes caps the size of a fetched document (default 10 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// OutputFormat selects how a built report is rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputCSL  OutputFormat = "csl"
)

// Valid reports whether f names a supported output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputText, OutputJSON, OutputCSL:
		return true
	}
	return false
}

// BuildConfig holds settings for the reference build stage.
type BuildConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`

	// Workers is the number of records fetched concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// Format selects the rendering of the final report.
	Format OutputFormat `json:"format" yaml:"format"`

	// Progress enables a progress bar on stderr.
	Progress bool `json:"progress" yaml:"progress"`
}
