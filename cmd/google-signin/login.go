package main

import (
	"github.com/spf13/cobra"

	signin "github.com/giantswarm/google-signin"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		clientID        string
		clientSecret    string
		iosClientID     string
		androidClientID string
		scopes          []string
		platform        string
		behavior        string
		callbackPort    int
		noBrowser       bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google and print the result as JSON",
		Long: `Sign in with Google in the system browser.

The result is printed as JSON. A sign-in cancelled by the user prints
{"type": "cancel"} and exits with status 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			cfg := a.cfg
			if flags.Changed("client-id") {
				cfg.ClientID = clientID
			}
			if flags.Changed("client-secret") {
				cfg.ClientSecret = clientSecret
			}
			if flags.Changed("ios-client-id") {
				cfg.IOSClientID = iosClientID
			}
			if flags.Changed("android-client-id") {
				cfg.AndroidClientID = androidClientID
			}
			if flags.Changed("scope") {
				cfg.Scopes = trimCSV(scopes)
			}
			if flags.Changed("platform") {
				cfg.Platform = platform
			}
			if flags.Changed("behavior") {
				cfg.Behavior = behavior
			}
			if flags.Changed("callback-port") {
				cfg.CallbackPort = callbackPort
			}
			if flags.Changed("no-browser") {
				cfg.NoBrowser = noBrowser
			}

			return a.withClient(cmd.Context(), func(client *signin.Client) error {
				result, err := client.LogIn(cmd.Context(), cfg.loginConfig())
				if err != nil {
					return err
				}
				return writeJSON(cmd, result)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&clientID, "client-id", "", "OAuth client id, used on every platform (env GOOGLE_SIGNIN_CLIENT_ID)")
	flags.StringVar(&clientSecret, "client-secret", "", "secret of a Desktop app client, sent on the token exchange (env GOOGLE_SIGNIN_CLIENT_SECRET)")
	flags.StringVar(&iosClientID, "ios-client-id", "", "client id used on iOS (env GOOGLE_SIGNIN_IOS_CLIENT_ID)")
	flags.StringVar(&androidClientID, "android-client-id", "", "client id used on Android (env GOOGLE_SIGNIN_ANDROID_CLIENT_ID)")
	flags.StringSliceVar(&scopes, "scope", nil, "additional scopes, repeatable or comma separated (env GOOGLE_SIGNIN_SCOPES)")
	flags.StringVar(&platform, "platform", "", "ios, android or web; detected when empty (env GOOGLE_SIGNIN_PLATFORM)")
	flags.StringVar(&behavior, "behavior", "", "web or system; system is deprecated and falls back to web (env GOOGLE_SIGNIN_BEHAVIOR)")
	flags.IntVar(&callbackPort, "callback-port", 0, "loopback port for the redirect, 0 picks a free port (env GOOGLE_SIGNIN_CALLBACK_PORT)")
	flags.BoolVar(&noBrowser, "no-browser", false, "print the sign-in URL instead of opening a browser (env GOOGLE_SIGNIN_NO_BROWSER)")

	return cmd
}
