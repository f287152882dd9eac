package oidc

import (
	"fmt"
	"net"
	"net/url"

	"github.com/giantswarm/google-signin/internal/util"
)

// ValidateIssuerURL validates an OIDC issuer URL before it is used for
// discovery. It enforces HTTPS and rejects localhost as well as loopback,
// private, link-local and unspecified IP literals.
//
// Example:
//
//	if err := ValidateIssuerURL("https://accounts.google.com"); err != nil {
//	    return fmt.Errorf("invalid issuer: %w", err)
//	}
func ValidateIssuerURL(issuerURL string) error {
	u, err := url.Parse(issuerURL)
	if err != nil {
		return fmt.Errorf("invalid issuer URL: %w", err)
	}

	if u.Scheme != "https" {
		return fmt.Errorf("issuer URL must use HTTPS, got %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("issuer URL must have a hostname")
	}
	if util.IsLoopbackHostname(host) {
		return fmt.Errorf("issuer URL must not point to loopback addresses")
	}

	if ip := net.ParseIP(host); ip != nil {
		switch util.ClassifyIP(ip) {
		case util.IPClassificationLoopback:
			return fmt.Errorf("issuer URL must not point to loopback addresses")
		case util.IPClassificationPrivate:
			return fmt.Errorf("issuer URL must not point to private IP ranges")
		case util.IPClassificationLinkLocal:
			return fmt.Errorf("issuer URL must not point to link-local addresses")
		case util.IPClassificationUnspecified:
			return fmt.Errorf("issuer URL must not point to unspecified addresses")
		}
	}

	return nil
}

// ValidateScopes validates OAuth scopes before they are put on an
// authorization URL.
func ValidateScopes(scopes []string) error {
	if len(scopes) > 50 {
		return fmt.Errorf("too many scopes (max 50, got %d)", len(scopes))
	}

	for i, scope := range scopes {
		if scope == "" {
			return fmt.Errorf("scope at index %d is empty", i)
		}
		if len(scope) > 256 {
			return fmt.Errorf("scope at index %d exceeds maximum length of 256 characters", i)
		}
	}

	return nil
}
