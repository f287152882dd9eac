// Package oidc provides OpenID Connect client utilities shared by the
// authorization and revocation capabilities.
//
// The sign-in client only knows the issuer URL (https://accounts.google.com).
// The endpoints needed to run the flow are resolved from the issuer's
// discovery document, the same way native AppAuth libraries do it.
//
// # Security Features
//
//   - HTTPS enforcement for the issuer and every discovered endpoint
//   - Issuer IP literals must be public (no loopback, private or link-local)
//   - Discovery document caching with TTL; seeded documents never expire
//
// # Example Usage
//
//	client := oidc.NewDiscoveryClient(nil, 1*time.Hour, logger)
//
//	doc, err := client.Discover(ctx, "https://accounts.google.com")
//	if err != nil {
//	    return err
//	}
//
//	config := &oauth2.Config{
//	    Endpoint: oauth2.Endpoint{
//	        AuthURL:  doc.AuthorizationEndpoint,
//	        TokenURL: doc.TokenEndpoint,
//	    },
//	}
package oidc
