// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package users

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	cerrors "coinly/cli/internal/errors"
)

// Profile is the flat, read-only projection of a remote identity record.
type Profile struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePicture"`
	Plan              string `json:"plan,omitempty"`
	CoinsAmount       int64  `json:"coinsAmount"`
}

// record mirrors the identity service's wire shape.
type record struct {
	ID             string `json:"_id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
	Plan           string `json:"plan"`
	CoinsAmount    int64  `json:"coinsAmount"`
}

type envelope struct {
	Data *record `json:"data"`
}

func (r record) profile() Profile {
	return Profile{
		ID:                r.ID,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Username:          r.Username,
		Email:             r.Email,
		ProfilePictureURL: r.ProfilePicture,
		Plan:              r.Plan,
		CoinsAmount:       r.CoinsAmount,
	}
}

// Me calls GET {base}/me with Authorization: Bearer <token>.
// It is used to rehydrate a session from a persisted token.
func (c *Client) Me(ctx context.Context, token string) (Profile, error) {
	return c.me(ctx, http.MethodGet, token)
}

// RefreshMe calls POST {base}/me with the rotated token and returns the profile it belongs to.
func (c *Client) RefreshMe(ctx context.Context, token string) (Profile, error) {
	return c.me(ctx, http.MethodPost, token)
}

func (c *Client) me(ctx context.Context, method, token string) (Profile, error) {
	op := method + " /me"
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/me", nil)
	if err != nil {
		return Profile{}, cerrors.Wrap(cerrors.KindTransport, op, err)
	}
	c.setStandardHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return Profile{}, cerrors.Wrap(cerrors.KindTransport, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := fmt.Sprintf("%s: %d", op, resp.StatusCode)
		if body := strings.TrimSpace(string(b)); body != "" {
			msg += " " + body
		}
		return Profile{}, cerrors.Rejected(resp.StatusCode, msg)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Profile{}, cerrors.Wrap(cerrors.KindDecode, op, err)
	}
	if env.Data == nil {
		return Profile{}, cerrors.New(cerrors.KindDecode, op+": response has no data")
	}
	return env.Data.profile(), nil
}

// setStandardHeaders applies headers shared by every identity request.
func (c *Client) setStandardHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
}
