package appauth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/giantswarm/google-signin/internal/util"
	"github.com/giantswarm/google-signin/providers"
	"github.com/giantswarm/google-signin/providers/oidc"
	"github.com/giantswarm/google-signin/security"
)

const (
	// DefaultTimeout bounds how long Authorize waits for the user.
	DefaultTimeout = 5 * time.Minute

	// callback listener rate limit: a browser needs one request, retries are rare
	defaultCallbackRate  = 1.0
	defaultCallbackBurst = 5

	maxErrorBodyLen = 256
)

// Config holds Client configuration. The zero value is usable.
type Config struct {
	// Discovery resolves issuer endpoints. nil creates a client with default settings.
	Discovery *oidc.DiscoveryClient

	// ClientSecret is sent on the token exchange when set. Google issues one to
	// "Desktop app" clients; it is not treated as confidential.
	ClientSecret string

	// HTTPClient is used for the token exchange and revocation (default: 30s timeout)
	HTTPClient *http.Client

	// CallbackPort is the loopback port of the redirect listener (0 picks a free port)
	CallbackPort int

	// Timeout bounds the interactive part of Authorize (default: DefaultTimeout)
	Timeout time.Duration

	// OpenURL presents the authorization URL to the user (default: OpenBrowser)
	OpenURL func(url string) error

	// RateLimiter throttles requests to the redirect listener per remote address.
	// nil uses a small per-address budget.
	RateLimiter *security.RateLimiter
}

// Client implements providers.Authorizer and providers.Revoker.
type Client struct {
	discovery    *oidc.DiscoveryClient
	clientSecret string
	httpClient   *http.Client
	callbackPort int
	timeout      time.Duration
	openURL      func(string) error
	limiter      *security.RateLimiter
	logger       *slog.Logger
}

var (
	_ providers.Authorizer = (*Client)(nil)
	_ providers.Revoker    = (*Client)(nil)
)

// New creates a Client. A nil config uses the defaults.
func New(cfg *Config, logger *slog.Logger) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	discovery := cfg.Discovery
	if discovery == nil {
		discovery = oidc.NewDiscoveryClient(httpClient, 0, logger)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	openURL := cfg.OpenURL
	if openURL == nil {
		openURL = OpenBrowser
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = security.NewRateLimiter(defaultCallbackRate, defaultCallbackBurst, 0, logger)
	}

	return &Client{
		discovery:    discovery,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		callbackPort: cfg.CallbackPort,
		timeout:      timeout,
		openURL:      openURL,
		limiter:      limiter,
		logger:       logger,
	}
}

// Authorize runs the authorization code flow with PKCE through the system
// browser and a loopback redirect URI.
func (c *Client) Authorize(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
	if req.ClientID == "" {
		return nil, providers.ErrMissingClientID
	}
	if err := oidc.ValidateScopes(req.Scopes); err != nil {
		return nil, err
	}

	doc, err := c.discovery.Discover(ctx, req.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover issuer endpoints: %w", err)
	}

	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()

	server := newCallbackServer(c.callbackPort, state, c.limiter, c.logger)
	if err := server.start(); err != nil {
		return nil, fmt.Errorf("failed to start redirect listener: %w", err)
	}
	defer func() {
		if err := server.stop(); err != nil {
			c.logger.Debug("Redirect listener shutdown failed", "error", err)
		}
	}()

	config := &oauth2.Config{
		ClientID:     req.ClientID,
		ClientSecret: c.clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   doc.AuthorizationEndpoint,
			TokenURL:  doc.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: server.redirectURI(),
		Scopes:      req.Scopes,
	}

	authURL := config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	c.logger.Debug("Opening authorization URL",
		"issuer", req.Issuer,
		"redirect_uri", config.RedirectURL,
		"scopes", strings.Join(req.Scopes, " "))

	if err := c.openURL(authURL); err != nil {
		return nil, fmt.Errorf("failed to open authorization URL: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	code, err := server.waitForCode(waitCtx)
	if err != nil {
		// returned as is so callers can match ErrUserCancelled
		return nil, err
	}

	token, err := providers.ExchangeCodeWithPKCE(ctx, config, c.httpClient, code, verifier)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Authorization code exchanged",
		"access_token", util.TokenPreview(token.AccessToken),
		"expiry", token.Expiry)

	return providers.TokenResponseFromOAuth2(token), nil
}

// Revoke posts req.Token to the issuer's revocation endpoint. The client id
// is sent only when req.IsClientIDProvided is set.
func (c *Client) Revoke(ctx context.Context, cfg providers.RevokeConfig, req providers.RevokeRequest) (*providers.RevokeResult, error) {
	doc, err := c.discovery.Discover(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover issuer endpoints: %w", err)
	}
	if doc.RevocationEndpoint == "" {
		return nil, fmt.Errorf("issuer %s does not advertise a revocation endpoint", cfg.Issuer)
	}

	form := url.Values{}
	form.Set("token", req.Token)
	if req.IsClientIDProvided {
		if cfg.ClientID == "" {
			return nil, providers.ErrMissingClientID
		}
		form.Set("client_id", cfg.ClientID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, doc.RevocationEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create revoke request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return nil, &providers.HTTPError{
			Operation:  "revoke",
			StatusCode: resp.StatusCode,
			Body:       util.SafeTruncate(string(body), maxErrorBodyLen),
		}
	}

	c.logger.Debug("Token revoked",
		"issuer", cfg.Issuer,
		"token", util.TokenPreview(req.Token),
		"client_id_provided", req.IsClientIDProvided)

	return &providers.RevokeResult{
		Revoked:    true,
		StatusCode: resp.StatusCode,
	}, nil
}
