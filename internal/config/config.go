package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL         = "https://asia-southeast1-backstory.googleapis.com/v2"
	DefaultScope           = "https://www.googleapis.com/auth/chronicle-backstory"
	DefaultCredentialsFile = "Service_Account.json"
	DefaultOutputDir       = "detections"
	DefaultLookback        = 24 * time.Hour
	DefaultRetryDelay      = 6 * time.Second
	DefaultRuleDelay       = 6 * time.Second
)

type Config struct {
	Version   string          `yaml:"version"`
	API       APIConfig       `yaml:"api"`
	Output    OutputConfig    `yaml:"output"`
	Window    WindowConfig    `yaml:"window"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Rules     RuleFilter      `yaml:"rules"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
}

type APIConfig struct {
	BaseURL         string   `yaml:"base_url"`
	CredentialsFile string   `yaml:"credentials_file"`
	Scopes          []string `yaml:"scopes"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type WindowConfig struct {
	Lookback time.Duration `yaml:"lookback"`
}

type RateLimitConfig struct {
	RetryDelay time.Duration `yaml:"retry_delay"`
	RuleDelay  time.Duration `yaml:"rule_delay"`
}

type RuleFilter struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

func Default() Config {
	return Config{
		Version: "1",
		API: APIConfig{
			BaseURL:         DefaultBaseURL,
			CredentialsFile: DefaultCredentialsFile,
			Scopes:          []string{DefaultScope},
		},
		Output:    OutputConfig{Dir: DefaultOutputDir},
		Window:    WindowConfig{Lookback: DefaultLookback},
		RateLimit: RateLimitConfig{RetryDelay: DefaultRetryDelay, RuleDelay: DefaultRuleDelay},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if strings.TrimSpace(c.API.CredentialsFile) == "" {
		c.API.CredentialsFile = def.API.CredentialsFile
	}
	if len(c.API.Scopes) == 0 {
		c.API.Scopes = def.API.Scopes
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = def.Output.Dir
	}
	if c.Window.Lookback == 0 {
		c.Window.Lookback = def.Window.Lookback
	}
	if c.RateLimit.RetryDelay == 0 {
		c.RateLimit.RetryDelay = def.RateLimit.RetryDelay
	}
	if c.RateLimit.RuleDelay == 0 {
		c.RateLimit.RuleDelay = def.RateLimit.RuleDelay
	}
}

// LoadDotEnv loads the first readable env file into the process environment without
// overriding variables that are already set. It returns the path it loaded, if any.
func LoadDotEnv(paths ...string) string {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// ApplyEnv overrides cfg with DETECTFETCH_* variables looked up through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("DETECTFETCH_BASE_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("DETECTFETCH_CREDENTIALS_FILE")); v != "" {
		cfg.API.CredentialsFile = v
	}
	if v := strings.TrimSpace(getenv("DETECTFETCH_OUTPUT_DIR")); v != "" {
		cfg.Output.Dir = v
	}
	if v := strings.TrimSpace(getenv("DETECTFETCH_CRON")); v != "" {
		cfg.Schedule.Cron = v
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"DETECTFETCH_LOOKBACK", &cfg.Window.Lookback},
		{"DETECTFETCH_RETRY_DELAY", &cfg.RateLimit.RetryDelay},
		{"DETECTFETCH_RULE_DELAY", &cfg.RateLimit.RuleDelay},
	}
	for _, d := range durations {
		v := strings.TrimSpace(getenv(d.key))
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.target = parsed
	}
	return nil
}

func Validate(cfg Config) error {
	if cfg.Version != "1" {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL: %q", cfg.API.BaseURL)
	}
	if strings.TrimSpace(cfg.API.CredentialsFile) == "" {
		return fmt.Errorf("api.credentials_file is required")
	}
	if cfg.Window.Lookback <= 0 {
		return fmt.Errorf("window.lookback must be positive")
	}
	if cfg.RateLimit.RetryDelay <= 0 || cfg.RateLimit.RuleDelay <= 0 {
		return fmt.Errorf("rate_limit delays must be positive")
	}
	for _, p := range append(append([]string{}, cfg.Rules.Include...), cfg.Rules.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid rule pattern: %q", p)
		}
	}
	if cfg.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			return fmt.Errorf("invalid schedule.cron: %w", err)
		}
	}
	return nil
}

// ValidateFile loads and validates the config at path.
func ValidateFile(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	return Validate(cfg)
}
