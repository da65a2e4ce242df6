// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"errors"
	"net/http"

	"coinly/cli/internal/logging"
	"coinly/cli/internal/tokenstore"
	"coinly/cli/internal/users"
)

// Do sends req unchanged and returns the response unchanged. When the response
// carries "Authorization: Bearer <token>" with a token other than the persisted
// one, the session adopts it before Do returns:
//
//   - a user is already known: Login(user, token).
//   - no user yet: the token's profile is fetched with RefreshMe; success logs
//     in, failure of any kind logs out.
//
// A malformed Authorization header is ignored. Transport errors from req are
// returned as-is and leave the session alone.
func (m *Manager) Do(req *http.Request) (*http.Response, error) {
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	m.observe(req.Context(), resp)
	return resp, nil
}

// Transport wraps base (http.DefaultTransport when nil) so every response
// passing through it is inspected the same way Do inspects it.
func (m *Manager) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &refreshTransport{m: m, base: base}
}

type refreshTransport struct {
	m    *Manager
	base http.RoundTripper
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	t.m.observe(req.Context(), resp)
	return resp, nil
}

func (m *Manager) observe(ctx context.Context, resp *http.Response) {
	token, present, ok := users.BearerFromResponse(resp.Header)
	if !present {
		return
	}
	if !ok {
		m.log.Debug("ignoring malformed Authorization response header")
		return
	}

	current, err := m.store.LoadToken()
	if err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
		m.log.Warn("reading persisted token failed", m.log.Args("error", logging.Mask(err.Error())))
	}
	if token == current {
		return
	}
	m.log.Debug("server rotated bearer token", m.log.Args("token", logging.MaskToken(token)))
	m.adopt(context.WithoutCancel(ctx), token)
}

// adopt applies a rotated token. Concurrent calls for the same token share one
// identity lookup.
func (m *Manager) adopt(ctx context.Context, token string) {
	if user := m.State().User; user != nil {
		m.Login(*user, token)
		return
	}
	_, _, _ = m.refresh.Do(token, func() (any, error) {
		profile, err := m.identity.RefreshMe(ctx, token)
		if err != nil {
			m.log.Error("identity lookup for rotated token failed", m.log.Args("error", logging.Mask(err.Error())))
			m.Logout()
			return nil, err
		}
		m.Login(profile, token)
		return nil, nil
	})
}
