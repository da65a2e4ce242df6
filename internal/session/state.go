// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "coinly/cli/internal/users"

// UserProfile is the identity the session is bound to.
type UserProfile = users.Profile

// State is an immutable snapshot of the session. The Manager never mutates a
// State in place; every transition builds a new one and swaps it in whole.
//
// IsAuthenticated is true exactly when User is non-nil.
type State struct {
	User            *UserProfile
	IsAuthenticated bool
	Token           string
	IsLoading       bool
}

// Initial is the snapshot held before Initialize has settled.
func Initial() State {
	return State{IsLoading: true}
}

// LoggedIn is the snapshot for an authenticated user.
func LoggedIn(user UserProfile, token string) State {
	u := user
	return State{User: &u, IsAuthenticated: true, Token: token}
}

// LoggedOut is the snapshot for no session.
func LoggedOut() State {
	return State{}
}

// clone copies the profile so callers cannot reach the Manager's snapshot.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (s State) String() string {
	switch {
	case s.IsAuthenticated:
		return "logged_in"
	case s.IsLoading:
		return "loading"
	default:
		return "logged_out"
	}
}
