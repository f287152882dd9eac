package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	signin "github.com/giantswarm/google-signin"
	"github.com/giantswarm/google-signin/instrumentation"
	"github.com/giantswarm/google-signin/providers/appauth"
	"github.com/giantswarm/google-signin/providers/google"
	"github.com/giantswarm/google-signin/providers/oidc"
	"github.com/giantswarm/google-signin/security"
)

// clientFactory builds the sign-in client for a command. The returned func
// releases what the client holds.
type clientFactory func(cfg *config, logger *slog.Logger) (*signin.Client, func(context.Context) error, error)

func newGoogleClient(cfg *config, logger *slog.Logger) (*signin.Client, func(context.Context) error, error) {
	rt, err := cfg.runtime()
	if err != nil {
		return nil, nil, err
	}

	discovery := oidc.NewDiscoveryClient(nil, 0, logger)
	discovery.Seed(google.Issuer, google.Document())

	openURL := appauth.OpenBrowser
	if cfg.NoBrowser {
		openURL = printURL(os.Stderr)
	}

	auth := appauth.New(&appauth.Config{
		Discovery:    discovery,
		ClientSecret: cfg.ClientSecret,
		CallbackPort: cfg.CallbackPort,
		Timeout:      cfg.Timeout,
		OpenURL:      openURL,
	}, logger)

	client, err := signin.NewClient(auth, auth, google.NewUserInfoFetcher(nil), &signin.ClientConfig{Runtime: rt}, logger)
	if err != nil {
		return nil, nil, err
	}
	client.SetAuditor(security.NewAuditor(logger, cfg.Audit))

	inst, err := instrumentation.New(instrumentation.Config{
		ServiceName:    "google-signin",
		ServiceVersion: version,
		Enabled:        cfg.Telemetry,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	client.SetInstrumentation(inst)

	return client, inst.Shutdown, nil
}

// printURL returns an OpenURL func for headless use: the user opens the
// printed URL on a browser of the same machine.
func printURL(w io.Writer) func(string) error {
	return func(url string) error {
		_, err := fmt.Fprintf(w, "Open this URL in your browser to sign in:\n\n  %s\n\n", url)
		return err
	}
}
