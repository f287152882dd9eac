package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/giantswarm/google-signin/internal/util"
	"github.com/giantswarm/google-signin/providers"
	"github.com/giantswarm/google-signin/providers/oidc"
)

const (
	// Issuer is Google's OpenID Connect issuer.
	Issuer = "https://accounts.google.com"

	// UserInfoURL is the userinfo endpoint queried after a successful sign-in.
	UserInfoURL = "https://www.googleapis.com/userinfo/v2/me"

	// RevocationURL is Google's token revocation endpoint.
	RevocationURL = "https://oauth2.googleapis.com/revoke"

	// maxErrorBodyLen bounds how much of an error response ends up in an HTTPError
	maxErrorBodyLen = 256
)

// Config holds UserInfoFetcher configuration
type Config struct {
	// UserInfoURL overrides the userinfo endpoint (default: UserInfoURL)
	UserInfoURL string

	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
}

// UserInfoFetcher implements providers.UserInfoFetcher against Google's
// userinfo v2 endpoint.
type UserInfoFetcher struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewUserInfoFetcher creates a fetcher. A nil config uses the defaults.
func NewUserInfoFetcher(cfg *Config) *UserInfoFetcher {
	if cfg == nil {
		cfg = &Config{}
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = UserInfoURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &UserInfoFetcher{
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

// userInfoResponse is the JSON body of the userinfo v2 endpoint
type userInfoResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// FetchUserInfo performs one GET of the userinfo endpoint with the access
// token as bearer credential. There is no retry.
//
// Transport and decode errors are returned as is (*url.Error,
// *json.SyntaxError, ...). A non-2xx status is a *providers.HTTPError rather
// than a profile with empty fields, which is what decoding Google's error
// body into the profile would produce.
func (f *UserInfoFetcher) FetchUserInfo(ctx context.Context, accessToken string) (*providers.UserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return nil, &providers.HTTPError{
			Operation:  "userinfo",
			StatusCode: resp.StatusCode,
			Body:       util.SafeTruncate(string(body), maxErrorBodyLen),
		}
	}

	var info userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &providers.UserInfo{
		ID:         info.ID,
		Email:      info.Email,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Picture:    info.Picture,
	}, nil
}

// Document returns Google's discovery document built from the oauth2/google
// endpoint. Seeding a DiscoveryClient with it skips the network round trip to
// the well-known configuration.
func Document() *oidc.DiscoveryDocument {
	return &oidc.DiscoveryDocument{
		Issuer:                        Issuer,
		AuthorizationEndpoint:         google.Endpoint.AuthURL,
		TokenEndpoint:                 google.Endpoint.TokenURL,
		UserInfoEndpoint:              "https://openidconnect.googleapis.com/v1/userinfo",
		RevocationEndpoint:            RevocationURL,
		JWKSUri:                       "https://www.googleapis.com/oauth2/v3/certs",
		ScopesSupported:               []string{"openid", "email", "profile"},
		ResponseTypesSupported:        []string{"code"},
		GrantTypesSupported:           []string{"authorization_code", "refresh_token"},
		CodeChallengeMethodsSupported: []string{"plain", "S256"},
	}
}
