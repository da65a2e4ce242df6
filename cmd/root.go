// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for coinly.
// Each subcommand drives one session operation (login, logout, rehydration,
// instrumented fetch) against the identity service using the Cobra CLI framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coinly/cli/internal/config"
	"coinly/cli/internal/logging"
)

var (
	showVersion bool
	verbose     bool
	apiURLFlag  string
	storeFlag   string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "coinly",
	Short:         "coinly CLI for signing in to the coinly API",
	Long:          `coinly keeps a signed-in session for the coinly API, stores its bearer token securely and follows server-side token rotation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logging.VerboseEnv, "1")
		}
		if apiURLFlag != "" {
			os.Setenv(config.EnvAPIURL, apiURLFlag)
		}
		if storeFlag != "" {
			os.Setenv(config.EnvStore, storeFlag)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("coinly %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("coinly", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "API origin (overrides "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Token store backend: keyring, sqlite, redis, postgres or memory")
}
