// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	cerrors "coinly/cli/internal/errors"
	"coinly/cli/internal/httperrors"
	"coinly/cli/internal/users"
)

var loginToken string

// loginCmd signs in with an existing bearer token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with a bearer token",
	Long: `The login command resolves a bearer token into its user with the identity service
and stores the token for later commands.

The token is taken from --token, or read from the terminal without echo. When stdin
is not a terminal the first line of stdin is used, so tokens can be piped in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		token := strings.TrimSpace(loginToken)
		if token == "" {
			var err error
			token, err = readToken(os.Stdin)
			if err != nil {
				return err
			}
		}
		if token == "" {
			return errors.New("no token provided")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		stop := startSpinner(os.Stderr, "Checking token")
		profile, err := e.identity.Me(ctx, token)
		stop()
		if err != nil {
			switch cerrors.KindOf(err) {
			case cerrors.KindTransport:
				return httperrors.FormatNetworkError(err, "checking your token", e.identity.BaseURL())
			case cerrors.KindRejected:
				return errors.New("the identity service rejected this token")
			default:
				return err
			}
		}

		e.sess.Login(profile, token)
		pterm.Success.Println(greeting(profile))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Bearer token to sign in with")
}

// readToken prompts for a token without echo on a terminal, or reads one line otherwise.
func readToken(in *os.File) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(os.Stderr, "Token: ")
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// greeting picks the friendliest identifier the profile offers.
func greeting(p users.Profile) string {
	switch {
	case p.FirstName != "":
		return fmt.Sprintf("Welcome back, %s!", p.FirstName)
	case p.Username != "":
		return fmt.Sprintf("Welcome back, %s!", p.Username)
	case p.Email != "":
		return fmt.Sprintf("Signed in as %s", p.Email)
	default:
		return "Login successful!"
	}
}
