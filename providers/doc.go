// Package providers defines the capabilities the sign-in client depends on and
// the types exchanged with them.
//
// The client never speaks OAuth itself. It delegates to three collaborators:
//   - Authorizer: runs the interactive authorization and returns tokens
//   - Revoker: revokes a token at the issuer
//   - UserInfoFetcher: resolves the user profile for an access token
//
// Implementations are provided in subpackages:
//   - providers/appauth: browser-based authorization code flow with PKCE and a
//     loopback redirect (Authorizer and Revoker)
//   - providers/google: Google userinfo endpoint (UserInfoFetcher)
//   - providers/oidc: issuer discovery and validation utilities
//   - providers/mock: function-field mocks for testing
package providers
