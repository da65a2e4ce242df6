// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package users is the HTTP client for the identity ("Users") service.
// It resolves a bearer token into the profile of the user who owns it, either
// through GET {base}/me during startup or POST {base}/me when the server has
// rotated the token on some other request.
package users

import (
	"net/http"
	"strings"
	"time"
)

// UserAgent is sent with every identity request.
var UserAgent = "coinly-cli/dev"

// Client implements identity lookups over REST.
type Client struct {
	// baseURL is the identity service root, e.g. "https://api.example.com/api/users"
	baseURL string
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// New creates a client for the identity service rooted at baseURL.
// It configures a 10-second timeout for all requests unless overridden.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the identity service root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }
