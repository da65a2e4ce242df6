// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd clears the session and the stored token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Long: `The logout command clears the session and removes the bearer token from the
configured token store. It does not contact the identity service.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		e.sess.Logout()
		pterm.Success.Println("Signed out; the stored token has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
