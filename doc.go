// Package signin signs users in with Google from native and desktop
// applications.
//
// The package resolves the client id for the running platform, adds the
// profile, email and openid scopes, runs the authorization through a
// providers.Authorizer, fetches the user profile and returns a LoginResult.
// A user cancelling the sign-in yields a result of type ResultTypeCancel
// instead of an error.
//
// Basic usage:
//
//	discovery := oidc.NewDiscoveryClient(nil, 0, logger)
//	discovery.Seed(google.Issuer, google.Document())
//	auth := appauth.New(&appauth.Config{Discovery: discovery}, logger)
//
//	client, err := signin.NewClient(auth, auth, google.NewUserInfoFetcher(nil), nil, logger)
//	if err != nil {
//		return err
//	}
//
//	result, err := client.LogIn(ctx, signin.LoginConfig{
//		ClientID: "1234.apps.googleusercontent.com",
//		Scopes:   []string{"https://www.googleapis.com/auth/drive.readonly"},
//	})
//	if err != nil {
//		return err
//	}
//	if result.Type == signin.ResultTypeCancel {
//		return nil
//	}
//
//	// later
//	_, err = client.LogOut(ctx, signin.LogoutRequest{AccessToken: result.AccessToken})
//
// Tokens are neither stored nor refreshed.
package signin
