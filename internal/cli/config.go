package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peter941221/detectfetch/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `version: "1"
api:
  base_url: https://asia-southeast1-backstory.googleapis.com/v2
  credentials_file: Service_Account.json
  scopes:
    - https://www.googleapis.com/auth/chronicle-backstory
output:
  dir: detections
window:
  lookback: 24h
rate_limit:
  # The detection API allows 10 queries per 60s.
  retry_delay: 6s
  rule_delay: 6s
rules:
  include: []
  exclude: []
schedule:
  cron: ""
`

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the detectfetch config file",
	}

	cmd.AddCommand(
		newConfigInitCommand(),
		newConfigCheckCommand(),
	)

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = defaultConfigPath
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", path)
				return nil
			}

			if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config created: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", defaultConfigPath, "Config file path")
	return cmd
}

func newConfigCheckCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateFile(path); err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config ok: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "config", defaultConfigPath, "Config file path")
	return cmd
}
