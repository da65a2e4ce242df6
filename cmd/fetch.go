// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"coinly/cli/internal/httperrors"
	"coinly/cli/internal/logging"
	"coinly/cli/internal/session"
	"coinly/cli/internal/users"
)

var (
	fetchMethod  string
	fetchData    string
	fetchHeaders []string
	fetchNoAuth  bool
)

// fetchCmd performs one request through the session so token rotation is followed.
var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Send an authenticated request and follow token rotation",
	Long: `The fetch command restores the session, sends one HTTP request with the session's
bearer token and prints the response body to stdout.

When the response carries a new "Authorization: Bearer <token>" header the session
adopts that token, so the next command uses it. Relative URLs are resolved against
the API origin.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		target := args[0]
		if strings.HasPrefix(target, "/") {
			target = strings.TrimRight(e.cfg.APIURL, "/") + target
		}

		var body io.Reader
		if fetchData != "" {
			body = strings.NewReader(fetchData)
		}
		req, err := http.NewRequestWithContext(cmd.Context(), strings.ToUpper(fetchMethod), target, body)
		if err != nil {
			return err
		}
		for _, h := range fetchHeaders {
			k, v, ok := strings.Cut(h, ":")
			if !ok {
				return fmt.Errorf("header %q is not in 'Key: Value' form", h)
			}
			req.Header.Add(strings.TrimSpace(k), strings.TrimSpace(v))
		}
		if fetchData != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}

		before := e.sess.Initialize(cmd.Context())
		if !fetchNoAuth && before.IsAuthenticated {
			req.Header.Set("Authorization", "Bearer "+before.Token)
		}
		e.log.Debug("sending request", e.log.Args("method", req.Method, "url", logging.Mask(target)))

		resp, err := e.sess.Do(req)
		if err != nil {
			return httperrors.FormatNetworkError(err, "sending the request", target)
		}
		defer resp.Body.Close()

		fmt.Fprintf(os.Stderr, "%s %s\n", resp.Proto, resp.Status)
		if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
			return err
		}

		switch msg, signedOut := rotationNotice(resp.Header, before, e.sess.State()); {
		case signedOut:
			pterm.Warning.Println(msg)
		case msg != "":
			pterm.Info.Println(msg)
		}
		return nil
	},
}

// rotationNotice describes what a rotated Authorization response header did to
// the session. It returns "" when the response carried no new token.
func rotationNotice(h http.Header, before, after session.State) (msg string, signedOut bool) {
	rotated, present, ok := users.BearerFromResponse(h)
	if !present || !ok || rotated == before.Token {
		return "", false
	}
	switch {
	case after.IsAuthenticated && after.Token == rotated:
		return fmt.Sprintf("Token rotated by the server (%s)", logging.MaskToken(rotated)), false
	case !after.IsAuthenticated && !after.IsLoading:
		return "The server issued a new token the identity service did not accept; you are signed out", true
	}
	return "", false
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchMethod, "request", "X", http.MethodGet, "HTTP method")
	fetchCmd.Flags().StringVarP(&fetchData, "data", "d", "", "Request body")
	fetchCmd.Flags().StringArrayVarP(&fetchHeaders, "header", "H", nil, "Extra header, 'Key: Value' (repeatable)")
	fetchCmd.Flags().BoolVar(&fetchNoAuth, "no-auth", false, "Do not send the session's bearer token")
}
