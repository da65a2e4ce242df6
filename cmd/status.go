// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"coinly/cli/internal/claims"
	"coinly/cli/internal/logging"
	"coinly/cli/internal/tokenstore"
)

// statusCmd describes the stored token without contacting the API.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored token and where it is kept",
	Long: `The status command reports which token store is configured and, if a token is
stored, what it claims about itself. JWT claims are decoded without verification;
only the identity service decides whether a token is valid.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		data := pterm.TableData{
			{"API", e.cfg.UsersBaseURL()},
			{"Store", e.store.Name()},
		}
		token, err := e.store.LoadToken()
		switch {
		case errors.Is(err, tokenstore.ErrNotFound):
			data = append(data, []string{"Token", "none"})
		case err != nil:
			return err
		default:
			data = append(data, []string{"Token", logging.MaskToken(token)})
			data = append(data, claimRows(token)...)
		}
		return pterm.DefaultTable.WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func claimRows(token string) [][]string {
	info, err := claims.Inspect(token)
	if err != nil {
		return [][]string{{"Format", "opaque"}}
	}
	rows := [][]string{{"Format", "JWT " + info.Algorithm}}
	if info.Subject != "" {
		rows = append(rows, []string{"Subject", info.Subject})
	}
	if info.Issuer != "" {
		rows = append(rows, []string{"Issuer", info.Issuer})
	}
	if !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt.Local().Format(time.RFC1123)
		if info.Expired(time.Now()) {
			exp += " (expired)"
		}
		rows = append(rows, []string{"Expires", exp})
	}
	return rows
}
