// Package claims decodes bearer tokens for display. Nothing here verifies a
// signature; the identity service is the only authority on whether a token is
// valid, and session transitions never consult this package.
package claims

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaque is returned for tokens that are not JWTs.
var ErrOpaque = errors.New("claims: token is not a JWT")

// Info is what the CLI shows about a token.
type Info struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Algorithm string
}

// Expired reports whether the token carries an expiry that lies before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect parses token without verifying it.
func Inspect(token string) (Info, error) {
	if strings.Count(token, ".") != 2 {
		return Info{}, ErrOpaque
	}
	var rc jwt.RegisteredClaims
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &rc)
	if err != nil {
		return Info{}, errors.Join(ErrOpaque, err)
	}

	info := Info{
		Subject: rc.Subject,
		Issuer:  rc.Issuer,
	}
	if parsed.Method != nil {
		info.Algorithm = parsed.Method.Alg()
	}
	if rc.IssuedAt != nil {
		info.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		info.ExpiresAt = rc.ExpiresAt.Time
	}
	return info, nil
}
