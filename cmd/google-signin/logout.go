package main

import (
	"github.com/spf13/cobra"

	signin "github.com/giantswarm/google-signin"
)

func newLogoutCmd(a *app) *cobra.Command {
	var (
		accessToken string
		clientID    string
	)

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("client-id") {
				clientID = a.cfg.ClientID
			}

			return a.withClient(cmd.Context(), func(client *signin.Client) error {
				result, err := client.LogOut(cmd.Context(), signin.LogoutRequest{
					AccessToken: accessToken,
					ClientID:    clientID,
				})
				if err != nil {
					return err
				}
				return writeJSON(cmd, result)
			})
		},
	}

	cmd.Flags().StringVar(&accessToken, "access-token", "", "access token to revoke")
	cmd.Flags().StringVar(&clientID, "client-id", "", "client id sent along with the token (env GOOGLE_SIGNIN_CLIENT_ID)")
	_ = cmd.MarkFlagRequired("access-token")

	return cmd
}
