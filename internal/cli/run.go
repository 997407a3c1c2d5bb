package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peter941221/detectfetch/internal/job"
	"github.com/peter941221/detectfetch/internal/model"
	"github.com/peter941221/detectfetch/internal/output"
	"github.com/peter941221/detectfetch/internal/schedule"
	"github.com/peter941221/detectfetch/internal/store"
	"github.com/spf13/cobra"
)

type runOptions struct {
	configFlags
	OutputDir string
	Lookback  time.Duration
	Include   []string
	Exclude   []string
	Cron      string
	Summary   string
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch recent detections for every rule and save their details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(opts.Summary) {
			case "human", "json", "none":
			default:
				return &ExitError{Code: 2, Message: fmt.Sprintf("unsupported summary format: %s", opts.Summary)}
			}

			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output-dir") {
				cfg.Output.Dir = opts.OutputDir
			}
			if cmd.Flags().Changed("lookback") {
				cfg.Window.Lookback = opts.Lookback
			}
			if cmd.Flags().Changed("include") {
				cfg.Rules.Include = opts.Include
			}
			if cmd.Flags().Changed("exclude") {
				cfg.Rules.Exclude = opts.Exclude
			}
			if cmd.Flags().Changed("cron") {
				cfg.Schedule.Cron = opts.Cron
			}
			if cfg, err = validated(cfg); err != nil {
				return err
			}

			reporter := output.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			api, err := newAPIClient(cmd.Context(), cfg, reporter)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			runner := job.New(job.Options{
				API:       api,
				Store:     store.New(cfg.Output.Dir),
				Reporter:  reporter,
				Filter:    job.RuleFilter{Include: cfg.Rules.Include, Exclude: cfg.Rules.Exclude},
				RuleDelay: cfg.RateLimit.RuleDelay,
			})

			runOnce := func(ctx context.Context) error {
				window := model.TrailingWindow(nowUTC(), cfg.Window.Lookback)
				summary, err := runner.Run(ctx, window)
				if err != nil {
					return err
				}
				return output.WriteSummary(summary, opts.Summary, cmd.OutOrStdout())
			}

			if cfg.Schedule.Cron == "" {
				if err := runOnce(cmd.Context()); err != nil {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			sched, err := schedule.New(cfg.Schedule.Cron, func() {
				if err := runOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
					reporter.Error(err)
				}
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scheduled with cron %q, press Ctrl+C to stop\n", cfg.Schedule.Cron)
			return sched.Run(ctx)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", store.DefaultDir, "Directory for detection detail files")
	cmd.Flags().DurationVar(&opts.Lookback, "lookback", 24*time.Hour, "Trailing window to search for detections")
	cmd.Flags().StringSliceVar(&opts.Include, "include", nil, "Only check rules whose name or ID matches a glob (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Skip rules whose name or ID matches a glob (repeatable)")
	cmd.Flags().StringVar(&opts.Cron, "cron", "", "Repeat the run on a cron schedule until interrupted")
	cmd.Flags().StringVar(&opts.Summary, "summary", "human", "Run summary format: human|json|none")

	return cmd
}
