package cli

import "github.com/spf13/cobra"

// BuildVersion is overridden by release tooling (e.g. goreleaser).
var BuildVersion = "0.1.0-dev"

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "detectfetch",
		Short:         "Detection detail fetcher",
		Long:          "detectfetch pulls recent rule detections from the Chronicle Detection Engine API and saves each detection's details as JSON.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(
		newRunCommand(),
		newRulesCommand(),
		newConfigCommand(),
		newVersionCommand(),
	)

	return cmd
}
