// Package appauth implements providers.Authorizer and providers.Revoker for
// native and command-line applications, following RFC 8252 (OAuth 2.0 for
// Native Apps).
//
// Authorize discovers the issuer's endpoints, starts a loopback redirect
// listener on 127.0.0.1, opens the system browser at the authorization URL and
// exchanges the returned code using PKCE (S256). The user denying consent
// (error=access_denied) is reported as providers.ErrUserCancelled.
//
// Revoke posts the token to the issuer's revocation endpoint (RFC 7009).
//
// Example:
//
//	discovery := oidc.NewDiscoveryClient(nil, 0, logger)
//	discovery.Seed(google.Issuer, google.Document())
//
//	auth := appauth.New(&appauth.Config{Discovery: discovery}, logger)
//	token, err := auth.Authorize(ctx, providers.AuthorizeRequest{
//		Issuer:   google.Issuer,
//		ClientID: "1234.apps.googleusercontent.com",
//		Scopes:   []string{"openid", "email", "profile"},
//	})
package appauth
