// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"coinly/cli/internal/session"
)

var keepOffline bool

// meCmd rehydrates the session from the stored token and shows who it belongs to.
var meCmd = &cobra.Command{
	Use:     "me",
	Aliases: []string{"whoami"},
	Short:   "Show the signed-in user",
	Long: `The me command rebuilds the session from the stored token by asking the identity
service who owns it, then prints that user's profile.

A token the service rejects is removed. When the service cannot be reached, the
session is cleared after a short grace period (logout_delay, 5s by default); pass
--keep-offline to keep the stored token and exit immediately instead.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		updates, unsubscribe := e.sess.Subscribe()
		defer unsubscribe()

		stop := startSpinner(os.Stderr, "Checking session")
		st := e.sess.Initialize(cmd.Context())
		stop()

		if e.sess.LogoutPending() {
			pterm.Warning.Printf("Cannot reach %s\n", e.cfg.UsersBaseURL())
			if keepOffline {
				pterm.Info.Println("Keeping the stored token (--keep-offline)")
				return nil
			}
			st = awaitDeferredLogout(cmd.Context(), updates, e.cfg.LogoutDelay)
		}

		printSession(st)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meCmd)
	meCmd.Flags().BoolVar(&keepOffline, "keep-offline", false, "Keep the stored token when the identity service is unreachable")
}

// awaitDeferredLogout blocks until the session publishes its next snapshot.
func awaitDeferredLogout(ctx context.Context, updates <-chan session.State, delay time.Duration) session.State {
	stop := startSpinner(os.Stderr, fmt.Sprintf("Clearing session in %s", delay))
	defer stop()
	select {
	case st, ok := <-updates:
		if ok {
			return st
		}
	case <-ctx.Done():
	}
	return session.Initial()
}

func printSession(st session.State) {
	if !st.IsAuthenticated {
		pterm.Info.Println("You're not logged in yet!")
		pterm.Println("   Run 'coinly login' to get started.")
		return
	}
	u := st.User
	name := u.Username
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		name = fmt.Sprintf("%s (%s)", full, u.Username)
	}
	data := pterm.TableData{
		{"User", name},
		{"Email", u.Email},
		{"ID", u.ID},
		{"Plan", u.Plan},
		{"Coins", strconv.FormatInt(u.CoinsAmount, 10)},
	}
	if u.ProfilePictureURL != "" {
		data = append(data, []string{"Picture", u.ProfilePictureURL})
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}
