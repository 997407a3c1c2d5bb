package cli

import (
	"fmt"

	"github.com/peter941221/detectfetch/internal/output"
	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	opts := &configFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List detection rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cfg, err = validated(cfg); err != nil {
				return err
			}

			reporter := output.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			api, err := newAPIClient(cmd.Context(), cfg, reporter)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			rules, err := api.ListRules(cmd.Context())
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			for _, r := range rules {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", r.RuleID, r.RuleName)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rules\n", len(rules))
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}
