// Package rservice wraps the Resend API with a client built per call from the stored API key.
package rservice

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/resend/resend-go/v2"

	"github.com/hal9000y/resend-mcp/internal/apperr"
)

type keySource interface {
	Get() (string, bool, error)
}

// Option configures a Resend service.
type Option func(*Resend)

// WithBaseURL points clients at a different API root, e.g. a local fake.
func WithBaseURL(u *url.URL) Option {
	return func(r *Resend) {
		r.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used by every Resend client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resend) {
		r.httpClient = c
	}
}

// NewResend creates a Resend service reading its API key from keys.
func NewResend(keys keySource, opts ...Option) *Resend {
	r := &Resend{keys: keys}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resend issues single requests to the Resend API.
type Resend struct {
	keys       keySource
	httpClient *http.Client
	baseURL    *url.URL
}

func (r *Resend) newClient() (*resend.Client, error) {
	key, ok, err := r.keys.Get()
	if err != nil {
		return nil, fmt.Errorf("keys.Get failed: %w", err)
	}
	if !ok {
		return nil, apperr.ErrCredentialMissing
	}

	clt := resend.NewCustomClient(r.httpClient, key)
	if r.baseURL != nil {
		clt.BaseURL = r.baseURL
	}

	return clt, nil
}
