package instrumentation

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
//
// Never put token values (access, id, refresh) on a span. Traces outlive the
// tokens and are readable by a wider audience than the device that holds them.
const (
	AttrClientID        = "oauth.client_id"
	AttrIssuer          = "oauth.issuer"
	AttrScope           = "oauth.scope"
	AttrTokenType       = "oauth.token_type" //nolint:gosec // token type (Bearer), not a token
	AttrIDTokenPresent  = "oauth.id_token.present"
	AttrRefreshPresent  = "oauth.refresh_token.present" //nolint:gosec // boolean flag only
	AttrClientIDPresent = "oauth.client_id.present"

	AttrPlatform     = "signin.platform"
	AttrAppOwnership = "signin.app_ownership"
	AttrBehavior     = "signin.behavior"
	AttrResult       = "signin.result"

	AttrProviderName      = "provider.name"
	AttrProviderOperation = "provider.operation"
)

// RecordError records an error on a span with proper status codes (nil-safe)
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks a span as successful (nil-safe)
func SetSpanSuccess(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// SetSpanAttributes sets attributes on a span (nil-safe)
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span != nil {
		span.SetAttributes(attrs...)
	}
}

// AddLoginAttributes adds the resolved sign-in request to a span (nil-safe)
func AddLoginAttributes(span trace.Span, issuer, clientID, platform, behavior string, scopes []string) {
	SetSpanAttributes(span,
		attribute.String(AttrIssuer, issuer),
		attribute.String(AttrPlatform, platform),
		attribute.String(AttrBehavior, behavior),
		attribute.String(AttrScope, strings.Join(scopes, " ")),
		attribute.Bool(AttrClientIDPresent, clientID != ""),
	)
	if clientID != "" {
		SetSpanAttributes(span, attribute.String(AttrClientID, clientID))
	}
}

// AddTokenAttributes describes an authorization result without its secrets (nil-safe)
func AddTokenAttributes(span trace.Span, tokenType string, hasIDToken, hasRefreshToken bool) {
	SetSpanAttributes(span,
		attribute.String(AttrTokenType, tokenType),
		attribute.Bool(AttrIDTokenPresent, hasIDToken),
		attribute.Bool(AttrRefreshPresent, hasRefreshToken),
	)
}

// AddProviderAttributes adds provider attributes to a span (nil-safe)
func AddProviderAttributes(span trace.Span, providerName, operation string) {
	SetSpanAttributes(span,
		attribute.String(AttrProviderName, providerName),
		attribute.String(AttrProviderOperation, operation),
	)
}

// SetResult records the sign-in outcome on a span (nil-safe)
func SetResult(span trace.Span, result string) {
	SetSpanAttributes(span, attribute.String(AttrResult, result))
}
