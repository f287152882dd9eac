package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	signin "github.com/giantswarm/google-signin"
)

// config is read from the environment. Command-line flags override it.
type config struct {
	ClientID        string        `env:"GOOGLE_SIGNIN_CLIENT_ID"`
	ClientSecret    string        `env:"GOOGLE_SIGNIN_CLIENT_SECRET"`
	IOSClientID     string        `env:"GOOGLE_SIGNIN_IOS_CLIENT_ID"`
	AndroidClientID string        `env:"GOOGLE_SIGNIN_ANDROID_CLIENT_ID"`
	Scopes          []string      `env:"GOOGLE_SIGNIN_SCOPES"        envSeparator:","`
	Platform        string        `env:"GOOGLE_SIGNIN_PLATFORM"`
	Behavior        string        `env:"GOOGLE_SIGNIN_BEHAVIOR"      envDefault:"web"`
	CallbackPort    int           `env:"GOOGLE_SIGNIN_CALLBACK_PORT" envDefault:"0"`
	Timeout         time.Duration `env:"GOOGLE_SIGNIN_TIMEOUT"       envDefault:"5m"`
	NoBrowser       bool          `env:"GOOGLE_SIGNIN_NO_BROWSER"`
	LogLevel        string        `env:"GOOGLE_SIGNIN_LOG_LEVEL"     envDefault:"warn"`
	Audit           bool          `env:"GOOGLE_SIGNIN_AUDIT"`
	Telemetry       bool          `env:"GOOGLE_SIGNIN_TELEMETRY"`
}

// loadConfig parses environ, or the process environment when environ is nil.
func loadConfig(environ map[string]string) (*config, error) {
	var opts env.Options
	if environ != nil {
		opts.Environment = environ
	}

	var cfg config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Scopes = trimCSV(cfg.Scopes)

	return &cfg, nil
}

// trimCSV removes empty entries from a string slice.
func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *config) loginConfig() signin.LoginConfig {
	return signin.LoginConfig{
		ClientID:        c.ClientID,
		IOSClientID:     c.IOSClientID,
		AndroidClientID: c.AndroidClientID,
		Behavior:        signin.Behavior(c.Behavior),
		Scopes:          c.Scopes,
	}
}

// runtime reports the configured platform, or the detected one when unset.
func (c *config) runtime() (signin.Runtime, error) {
	if c.Platform == "" {
		return signin.DetectRuntime(), nil
	}
	p, err := signin.ParsePlatform(c.Platform)
	if err != nil {
		return nil, err
	}
	return signin.StaticRuntime{OS: p, Ownership: signin.AppOwnershipStandalone}, nil
}

func (c *config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
