// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the client-side authentication state.
//
// A Manager keeps one in-memory State, mirrors its bearer token into a token
// store, rehydrates the session from that token on Initialize, and instruments
// outgoing HTTP calls so a token rotated by the server (sent back in the
// Authorization response header) is adopted transparently.
//
// Every failure resolves to "no session": identity errors are logged, never
// returned. The only asymmetry is a transport failure during Initialize, which
// logs the user out after a delay instead of immediately.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/singleflight"

	cerrors "coinly/cli/internal/errors"
	"coinly/cli/internal/logging"
	"coinly/cli/internal/tokenstore"
	"coinly/cli/internal/users"
)

// DefaultLogoutDelay is how long Initialize waits before clearing the session
// after the identity service could not be reached.
const DefaultLogoutDelay = 5 * time.Second

// Identity resolves a bearer token into the profile that owns it.
type Identity interface {
	// Me is the startup lookup (GET {base}/me).
	Me(ctx context.Context, token string) (users.Profile, error)
	// RefreshMe is the lookup for a server-rotated token (POST {base}/me).
	RefreshMe(ctx context.Context, token string) (users.Profile, error)
}

// TokenStore persists the bearer token. *tokenstore.Store satisfies it.
type TokenStore interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// Manager holds the session snapshot and applies transitions to it.
type Manager struct {
	store       TokenStore
	identity    Identity
	client      *http.Client
	log         *pterm.Logger
	logoutDelay time.Duration

	mu      sync.Mutex
	state   State
	pending *time.Timer
	subs    map[int]chan State
	nextSub int
	closed  bool

	initOnce sync.Once
	refresh  singleflight.Group
}

// Option customises a Manager.
type Option func(*Manager)

// WithLogger routes session logs to l.
func WithLogger(l *pterm.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithLogoutDelay overrides DefaultLogoutDelay.
func WithLogoutDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.logoutDelay = d
		}
	}
}

// WithHTTPClient sets the client Do forwards requests through.
func WithHTTPClient(hc *http.Client) Option {
	return func(m *Manager) {
		if hc != nil {
			m.client = hc
		}
	}
}

// New creates a Manager in the Initial state.
func New(store TokenStore, identity Identity, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		identity:    identity,
		client:      http.DefaultClient,
		log:         logging.Discard(),
		logoutDelay: DefaultLogoutDelay,
		state:       Initial(),
		subs:        make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Initialize rehydrates the session from the persisted token. It runs once per
// Manager; later calls return the current snapshot without touching the network.
//
//   - no persisted token: the session is cleared.
//   - the identity service accepts the token: the session is logged in with it.
//   - the identity service rejects the token: the session is cleared.
//   - the identity service is unreachable: a single logout is scheduled after
//     the logout delay. It is cancelled by a later Login or by Close.
//
// Cancelling ctx abandons the lookup and leaves the snapshot untouched.
func (m *Manager) Initialize(ctx context.Context) State {
	m.initOnce.Do(func() { m.rehydrate(ctx) })
	return m.State()
}

func (m *Manager) rehydrate(ctx context.Context) {
	token, err := m.store.LoadToken()
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			m.log.Warn("reading persisted token failed", m.log.Args("error", logging.Mask(err.Error())))
		}
		m.Logout()
		return
	}

	profile, err := m.identity.Me(ctx, token)
	switch {
	case err == nil:
		m.Login(profile, token)
	case ctx.Err() != nil:
		m.log.Debug("rehydration cancelled", m.log.Args("error", ctx.Err().Error()))
	case cerrors.IsKind(err, cerrors.KindTransport):
		m.log.Debug("identity service unreachable, scheduling logout",
			m.log.Args("delay", m.logoutDelay.String(), "error", logging.Mask(err.Error())))
		m.scheduleLogout()
	default:
		m.log.Debug("persisted token rejected", m.log.Args("error", logging.Mask(err.Error())))
		m.Logout()
	}
}

// Login binds the session to user and token and persists the token.
// The token is not validated.
func (m *Manager) Login(user UserProfile, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelPendingLocked()
	m.swapLocked(LoggedIn(user, token))
	if err := m.store.SaveToken(token); err != nil {
		m.log.Warn("persisting token failed", m.log.Args("error", logging.Mask(err.Error())))
	}
}

// Logout clears the session and removes the persisted token.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked()
}

func (m *Manager) logoutLocked() {
	m.swapLocked(LoggedOut())
	if err := m.store.ClearToken(); err != nil {
		m.log.Warn("removing persisted token failed", m.log.Args("error", logging.Mask(err.Error())))
	}
}

// LogoutPending reports whether a deferred logout is scheduled.
func (m *Manager) LogoutPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Close cancels any deferred logout and closes subscriber channels.
// The Manager stays usable for direct Login and Logout calls.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelPendingLocked()
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
	m.closed = true
}

// Subscribe returns a channel receiving every new snapshot and a func to stop.
// Slow readers only see the latest snapshot.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan State, 1)
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[id]; ok {
				close(c)
				delete(m.subs, id)
			}
		})
	}
}

func (m *Manager) scheduleLogout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.cancelPendingLocked()
	var t *time.Timer
	t = time.AfterFunc(m.logoutDelay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// A Login or Close since scheduling replaced or cleared pending.
		if m.pending != t {
			return
		}
		m.pending = nil
		m.log.Debug("deferred logout fired")
		m.logoutLocked()
	})
	m.pending = t
}

func (m *Manager) cancelPendingLocked() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

func (m *Manager) swapLocked(next State) {
	m.state = next
	m.log.Debug("session swapped", m.log.Args(
		"state", next.String(),
		"token", logging.MaskToken(next.Token),
	))
	for _, ch := range m.subs {
		publish(ch, next.clone())
	}
}

// publish replaces any unread snapshot with s.
func publish(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
