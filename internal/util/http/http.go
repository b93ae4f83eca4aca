// Package http fetches remote stylesheets and images.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jmylchreest/wcagtint/internal/version"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 32 << 20
)

// ErrTooLarge is returned when a body is longer than FetchOptions.MaxBytes.
var ErrTooLarge = errors.New("response body too large")

// FetchOptions tunes a single Fetch. Zero values pick the defaults.
type FetchOptions struct {
	Timeout  time.Duration
	Headers  map[string]string
	MaxBytes int64
}

// StatusError is a response other than 200 OK.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// IsURL reports whether s is an absolute http or https URL with a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// UserAgent is sent with every request.
func UserAgent() string {
	return "wcagtint/" + version.Short()
}

// Fetch GETs rawURL and returns its body.
func Fetch(ctx context.Context, rawURL string, opts FetchOptions) ([]byte, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", UserAgent())
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBytes+1))
	switch {
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	case int64(len(body)) > opts.MaxBytes:
		return nil, fmt.Errorf("GET %s: %w (limit %d bytes)", rawURL, ErrTooLarge, opts.MaxBytes)
	}
	return body, nil
}
