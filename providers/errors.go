package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrUserCancelled is returned by an Authorizer when the user aborted the
	// sign-in. Its message is what callers match on.
	ErrUserCancelled = errors.New("user cancelled login")

	// ErrMissingClientID is returned when an authorization or revocation needs
	// a client id and none was resolved.
	ErrMissingClientID = errors.New("client id is required")

	// ErrNoToken is returned when an Authorizer reports success without a token.
	ErrNoToken = errors.New("providers: authorizer returned no token")

	// ErrNoUserInfo is returned when a UserInfoFetcher reports success without
	// a profile.
	ErrNoUserInfo = errors.New("providers: user info fetcher returned no profile")
)

// HTTPError is returned when a provider endpoint answers with a non-2xx status.
type HTTPError struct {
	Operation  string // e.g. "userinfo", "revoke"
	StatusCode int
	Body       string // truncated response body, for diagnostics
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s request failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// AuthorizationError is an OAuth error returned on the redirect URI
// (RFC 6749 Section 4.1.2.1), other than a user cancellation.
type AuthorizationError struct {
	Code        string
	Description string
}

// Error implements the error interface
func (e *AuthorizationError) Error() string {
	if e.Description == "" {
		return "authorization failed: " + e.Code
	}
	return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
}
