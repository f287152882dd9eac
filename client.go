package signin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/giantswarm/google-signin/instrumentation"
	"github.com/giantswarm/google-signin/internal/util"
	"github.com/giantswarm/google-signin/providers"
	"github.com/giantswarm/google-signin/security"
)

const (
	warnSandboxedNative  = "Native Google sign-in is not available in a sandboxed host. Falling back to web behavior"
	warnDeprecatedNative = "Deprecated: native Google sign-in is no longer supported by this client. Falling back to web behavior"
)

// Client signs users in with Google and revokes their tokens.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	authorizer providers.Authorizer
	revoker    providers.Revoker
	userInfo   providers.UserInfoFetcher
	config     *ClientConfig
	logger     *slog.Logger

	auditor         *security.Auditor
	instrumentation *instrumentation.Instrumentation
	tracer          trace.Tracer
}

// NewClient creates a sign-in client. A nil config uses the defaults and a
// nil logger uses slog.Default().
func NewClient(
	authorizer providers.Authorizer,
	revoker providers.Revoker,
	userInfo providers.UserInfoFetcher,
	config *ClientConfig,
	logger *slog.Logger,
) (*Client, error) {
	if authorizer == nil {
		return nil, fmt.Errorf("authorizer is required")
	}
	if revoker == nil {
		return nil, fmt.Errorf("revoker is required")
	}
	if userInfo == nil {
		return nil, fmt.Errorf("user info fetcher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		authorizer: authorizer,
		revoker:    revoker,
		userInfo:   userInfo,
		config:     applyDefaults(config),
		logger:     logger,
	}, nil
}

// SetAuditor sets the audit logger. Call before the client is shared.
func (c *Client) SetAuditor(aud *security.Auditor) {
	c.auditor = aud
}

// SetInstrumentation enables spans and metrics. Call before the client is shared.
func (c *Client) SetInstrumentation(inst *instrumentation.Instrumentation) {
	c.instrumentation = inst
	if inst != nil {
		c.tracer = inst.Tracer("signin")
	} else {
		c.tracer = nil
	}
}

// LogIn signs the user in through the browser and fetches their profile.
//
// A cancellation by the user is not an error: the result has Type
// ResultTypeCancel. Every other error of the authorization or the profile
// fetch is returned as is, without wrapping.
func (c *Client) LogIn(ctx context.Context, cfg LoginConfig) (*LoginResult, error) {
	start := time.Now()
	platform := c.config.Runtime.Platform()

	behavior := cfg.Behavior
	if behavior == "" {
		behavior = BehaviorWeb
	}
	if behavior != BehaviorWeb {
		if c.config.Runtime.AppOwnership() == AppOwnershipSandbox {
			c.logger.Warn(warnSandboxedNative, "behavior", string(behavior))
		} else {
			c.logger.Warn(warnDeprecatedNative, "behavior", string(behavior))
		}
	}

	scopes := ResolveScopes(cfg.Scopes)
	clientID := ResolveClientID(cfg, platform)

	ctx, span := c.startSpan(ctx, "signin.login")
	defer endSpan(span)
	instrumentation.AddLoginAttributes(span, Issuer, clientID, string(platform), string(behavior), scopes)

	result, err := c.logIn(ctx, clientID, scopes)

	outcome := instrumentation.ResultSuccess
	switch {
	case err != nil && IsUserCancelled(err):
		outcome = instrumentation.ResultCancel
		result, err = &LoginResult{Type: ResultTypeCancel}, nil
		c.auditor.LogLoginCancelled(clientID, string(platform))
		instrumentation.SetSpanSuccess(span)
	case err != nil:
		outcome = instrumentation.ResultError
		c.auditor.LogLoginFailed(clientID, string(platform), err.Error())
		instrumentation.RecordError(span, err)
	default:
		c.auditor.LogLoginSucceeded(result.User.ID, clientID, string(platform), strings.Join(scopes, " "))
		instrumentation.AddTokenAttributes(span, result.TokenType, result.IDToken != "", result.RefreshToken != "")
		instrumentation.SetSpanSuccess(span)
	}
	instrumentation.SetResult(span, outcome)
	if c.instrumentation != nil {
		c.instrumentation.Metrics().RecordLogin(ctx, outcome, string(platform), msSince(start))
	}

	return result, err
}

// logIn runs authorize then fetch. Errors are returned untouched.
func (c *Client) logIn(ctx context.Context, clientID string, scopes []string) (*LoginResult, error) {
	callStart := time.Now()
	token, err := c.authorizer.Authorize(ctx, providers.AuthorizeRequest{
		Issuer:   Issuer,
		Scopes:   scopes,
		ClientID: clientID,
	})
	if err == nil && token == nil {
		err = providers.ErrNoToken
	}
	c.recordProviderCall(ctx, "authorize", callStart, err)
	if err != nil {
		return nil, err
	}

	callStart = time.Now()
	info, err := c.userInfo.FetchUserInfo(ctx, token.AccessToken)
	if err == nil && info == nil {
		err = providers.ErrNoUserInfo
	}
	c.recordProviderCall(ctx, "userinfo", callStart, err)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:         info.ID,
		Name:       info.Name,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		PhotoURL:   info.Picture,
		Email:      info.Email,
	}

	c.logger.Debug("Google sign-in succeeded",
		"access_token", util.TokenPreview(token.AccessToken),
		"id_token", util.TokenPreview(token.IDToken),
		"refresh_token", util.TokenPreview(token.RefreshToken),
		"token_type", token.TokenType,
		"expiry", token.Expiry,
		"user_id", user.ID,
		"user_email", user.Email,
		"user_name", user.Name)

	return &LoginResult{
		Type:         ResultTypeSuccess,
		AccessToken:  token.AccessToken,
		IDToken:      token.IDToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		Extra:        token.Extra,
		User:         user,
	}, nil
}

// LogOut revokes req.AccessToken. The client id is sent along only when set.
// The revoker's result and error are returned as is.
func (c *Client) LogOut(ctx context.Context, req LogoutRequest) (*providers.RevokeResult, error) {
	ctx, span := c.startSpan(ctx, "signin.logout")
	defer endSpan(span)

	clientIDProvided := req.ClientID != ""
	instrumentation.AddProviderAttributes(span, c.config.ProviderName, "revoke")
	instrumentation.SetSpanAttributes(span, attribute.Bool(instrumentation.AttrClientIDPresent, clientIDProvided))

	start := time.Now()
	result, err := c.revoker.Revoke(ctx,
		providers.RevokeConfig{Issuer: Issuer, ClientID: req.ClientID},
		providers.RevokeRequest{Token: req.AccessToken, IsClientIDProvided: clientIDProvided},
	)
	c.recordProviderCall(ctx, "revoke", start, err)

	outcome := instrumentation.ResultSuccess
	if err != nil {
		outcome = instrumentation.ResultError
		c.auditor.LogRevokeFailed(req.ClientID, err.Error())
		instrumentation.RecordError(span, err)
	} else {
		c.auditor.LogTokenRevoked(req.ClientID, clientIDProvided)
		instrumentation.SetSpanSuccess(span)
	}
	instrumentation.SetResult(span, outcome)
	if c.instrumentation != nil {
		c.instrumentation.Metrics().RecordLogout(ctx, outcome)
	}

	return result, err
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, nil
	}
	return c.tracer.Start(ctx, name)
}

func endSpan(span trace.Span) {
	if span != nil {
		span.End()
	}
}

func (c *Client) recordProviderCall(ctx context.Context, operation string, start time.Time, err error) {
	if c.instrumentation == nil {
		return
	}
	c.instrumentation.Metrics().RecordProviderAPICall(ctx, c.config.ProviderName, operation, msSince(start), err)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
