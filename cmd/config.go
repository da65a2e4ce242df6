// Copyright (c) 2025 Coinly
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"coinly/cli/internal/config"
	"coinly/cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
	Long: `The config command manages the settings file in the XDG config directory.
The bearer token is never written there; it lives in the token store.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings, environment overrides included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		c, err := config.LoadFile(p)
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithHasHeader().WithData(settingRows(p, c)).Render()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change one setting in the config file",
	Long: `The set command writes one setting to the config file. Environment overrides
are not copied into the file. Known keys:

  api_url, log_level, logout_delay, http_timeout, store.backend,
  store.sqlite_path, store.redis_addr, store.redis_prefix, store.postgres_dsn`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		c, err := config.ReadFile(p)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := config.SaveFile(p, c); err != nil {
			return err
		}
		v, _ := c.Get(args[0])
		pterm.Success.Printfln("%s = %s", args[0], logging.Mask(v))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// settingRows renders every known key; credentials in DSNs are masked.
func settingRows(path string, c config.Config) pterm.TableData {
	rows := pterm.TableData{{"Setting", "Value"}, {"file", path}}
	for _, k := range config.Keys {
		v, _ := c.Get(k)
		rows = append(rows, []string{k, logging.Mask(v)})
	}
	return rows
}
