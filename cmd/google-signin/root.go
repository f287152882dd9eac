package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	signin "github.com/giantswarm/google-signin"
)

// app holds state shared by the subcommands
type app struct {
	environ   map[string]string
	newClient clientFactory

	cfg    *config
	logger *slog.Logger
}

// newRootCmd builds the command tree. environ replaces the process
// environment when non-nil.
func newRootCmd(newClient clientFactory, environ map[string]string) *cobra.Command {
	a := &app{environ: environ, newClient: newClient}

	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "google-signin",
		Short: "Sign in with Google from the command line",
		Long: `google-signin runs the Google OAuth 2.0 sign-in in the system browser
and prints the tokens and the user profile as JSON.

Configuration is read from GOOGLE_SIGNIN_* environment variables.
Flags take precedence over the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.environ)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			level, err := cfg.logLevel()
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (env GOOGLE_SIGNIN_LOG_LEVEL)")

	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// withClient builds a client, runs fn and releases the client.
func (a *app) withClient(ctx context.Context, fn func(*signin.Client) error) error {
	client, release, err := a.newClient(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if release == nil {
			return
		}
		if err := release(ctx); err != nil {
			a.logger.Debug("Failed to release client", "error", err)
		}
	}()

	return fn(client)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
