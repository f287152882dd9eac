package providers

import (
	"context"
	"time"
)

// Authorizer runs an interactive OAuth 2.0 / OpenID Connect authorization
// against an issuer and returns the resulting tokens.
//
// Implementations report a user-initiated cancellation with an error whose
// message contains "user cancelled" (see ErrUserCancelled).
type Authorizer interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*TokenResponse, error)
}

// Revoker revokes a token at the issuer's revocation endpoint.
type Revoker interface {
	Revoke(ctx context.Context, cfg RevokeConfig, req RevokeRequest) (*RevokeResult, error)
}

// UserInfoFetcher resolves the profile of the user owning an access token.
type UserInfoFetcher interface {
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// AuthorizeRequest is the input of Authorizer.Authorize.
type AuthorizeRequest struct {
	// Issuer is the authorization server base URL (e.g. https://accounts.google.com)
	Issuer string

	// Scopes are the scopes to request, already de-duplicated
	Scopes []string

	// ClientID identifies the application at the issuer. May be empty when the
	// caller did not configure one for the running platform.
	ClientID string
}

// TokenResponse is the result of a successful authorization.
type TokenResponse struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	TokenType    string
	Expiry       time.Time

	// Extra holds any other fields returned by the token endpoint (e.g. "scope")
	Extra map[string]any
}

// RevokeConfig identifies the issuer and client a revocation is made for.
type RevokeConfig struct {
	Issuer   string
	ClientID string
}

// RevokeRequest is the token to revoke.
type RevokeRequest struct {
	Token string

	// IsClientIDProvided controls whether RevokeConfig.ClientID is sent along
	// with the token.
	IsClientIDProvided bool
}

// RevokeResult describes the outcome reported by the revocation endpoint.
type RevokeResult struct {
	Revoked    bool `json:"revoked"`
	StatusCode int  `json:"statusCode"`
}

// UserInfo represents the profile returned by the provider's userinfo endpoint.
type UserInfo struct {
	// ID is the unique user identifier from the provider
	ID string

	// Email is the user's email address
	Email string

	// Name is the user's full name
	Name string

	// GivenName is the user's first name
	GivenName string

	// FamilyName is the user's last name
	FamilyName string

	// Picture is the URL of the user's profile picture
	Picture string
}
