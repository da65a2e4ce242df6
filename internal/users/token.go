// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package users

import (
	"net/http"
	"strings"
)

// ParseBearer extracts the token from a value like "Bearer <token>".
// The scheme match is case-insensitive and surrounding whitespace is trimmed.
// Values without the scheme, or with nothing after it, are reported as malformed.
func ParseBearer(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return "", false
	}
	if !strings.EqualFold(v[:6], "bearer") {
		return "", false
	}
	if v[6] != ' ' && v[6] != '\t' {
		return "", false
	}
	token := strings.TrimSpace(v[7:])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// BearerFromResponse reads the Authorization response header. present reports
// whether the header was sent at all; ok reports whether it held a usable token.
func BearerFromResponse(h http.Header) (token string, present bool, ok bool) {
	raw := h.Get("Authorization")
	if raw == "" {
		return "", false, false
	}
	token, ok = ParseBearer(raw)
	return token, true, ok
}
