// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"net/http"

	"github.com/pterm/pterm"

	"coinly/cli/internal/config"
	"coinly/cli/internal/logging"
	"coinly/cli/internal/session"
	"coinly/cli/internal/tokenstore"
	"coinly/cli/internal/users"
)

// env is everything a command needs to act on the session.
type env struct {
	cfg      config.Config
	log      *pterm.Logger
	store    *tokenstore.Store
	identity *users.Client
	sess     *session.Manager
}

// openEnv loads configuration and wires store, identity client and session manager.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(nil, cfg.LogLevel)
	store, err := tokenstore.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	identity := users.New(cfg.UsersBaseURL(), users.WithTimeout(cfg.HTTPTimeout))
	log.Debug("environment ready", log.Args(
		"api", cfg.UsersBaseURL(),
		"store", store.Name(),
	))

	return &env{
		cfg:      cfg,
		log:      log,
		store:    store,
		identity: identity,
		sess: session.New(store, identity,
			session.WithLogger(log),
			session.WithLogoutDelay(cfg.LogoutDelay),
			session.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		),
	}, nil
}

// Close cancels any deferred session work and releases the store.
func (e *env) Close() {
	e.sess.Close()
	_ = e.store.Close()
}
