// Package security provides audit logging and request rate limiting for the
// sign-in flow.
//
// # Audit Logging
//
// The Auditor records login and logout outcomes through slog. User ids are
// reduced to a 16 hex character SHA-256 fingerprint; tokens never appear in
// events.
//
//	auditor := security.NewAuditor(logger, true)
//	client.SetAuditor(auditor)
//
// # Rate Limiting
//
// RateLimiter keeps a token bucket (golang.org/x/time/rate) per identifier
// with LRU eviction once maxEntries identifiers are tracked. The loopback
// callback server of the browser authorizer keys it by remote address.
//
//	limiter := security.NewRateLimiter(5, 10, 0, logger)
//	if !limiter.Allow(remoteAddr) {
//	    http.Error(w, "too many requests", http.StatusTooManyRequests)
//	    return
//	}
package security
