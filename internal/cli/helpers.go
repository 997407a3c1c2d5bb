package cli

import (
	"context"
	"os"
	"time"

	"github.com/peter941221/detectfetch/internal/chronicle"
	"github.com/peter941221/detectfetch/internal/config"
	"github.com/peter941221/detectfetch/internal/job"
	"github.com/peter941221/detectfetch/internal/output"
	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = ".detectfetch/config.yaml"
	defaultEnvFile    = ".env"
)

// newAPIClient builds the authenticated detection API client. Tests replace it.
var newAPIClient = func(ctx context.Context, cfg config.Config, reporter *output.Reporter) (job.API, error) {
	httpClient, err := chronicle.NewServiceAccountHTTPClient(ctx, cfg.API.CredentialsFile, cfg.API.Scopes...)
	if err != nil {
		return nil, err
	}
	return chronicle.NewClient(cfg.API.BaseURL, httpClient,
		chronicle.WithRetryDelay(cfg.RateLimit.RetryDelay),
		chronicle.WithRateLimitHook(reporter.RateLimited),
	), nil
}

// configFlags are the flags shared by every command that talks to the API.
type configFlags struct {
	ConfigPath      string
	EnvFile         string
	CredentialsFile string
	BaseURL         string
}

func (f *configFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigPath, "config", defaultConfigPath, "Config file path")
	cmd.Flags().StringVar(&f.EnvFile, "env-file", defaultEnvFile, "Optional .env file with DETECTFETCH_* overrides")
	cmd.Flags().StringVar(&f.CredentialsFile, "credentials", "", "Service account key file")
	cmd.Flags().StringVar(&f.BaseURL, "base-url", "", "Detection API base URL")
}

// load layers defaults, the config file, the env file, the environment and the
// flags that were explicitly set, in that order.
func (f *configFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return config.Config{}, &ExitError{Code: 2, Message: err.Error()}
	}
	config.LoadDotEnv(f.EnvFile)
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		return config.Config{}, &ExitError{Code: 2, Message: err.Error()}
	}
	if cmd.Flags().Changed("credentials") {
		cfg.API.CredentialsFile = f.CredentialsFile
	}
	if cmd.Flags().Changed("base-url") {
		cfg.API.BaseURL = f.BaseURL
	}
	return cfg, nil
}

func validated(cfg config.Config) (config.Config, error) {
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

func nowUTC() time.Time { return time.Now().UTC() }
