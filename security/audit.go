package security

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
)

// Audit event types
const (
	EventLoginSucceeded = "login_succeeded"
	EventLoginCancelled = "login_cancelled"
	EventLoginFailed    = "login_failed"
	EventTokenRevoked   = "token_revoked"
	EventRevokeFailed   = "revoke_failed"
)

// Auditor logs sign-in events. User identifiers are hashed and tokens are
// never part of an event.
type Auditor struct {
	logger  *slog.Logger
	enabled bool
	now     func() time.Time
}

// NewAuditor creates a new auditor. A nil logger uses slog.Default().
func NewAuditor(logger *slog.Logger, enabled bool) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{
		logger:  logger,
		enabled: enabled,
		now:     time.Now,
	}
}

// Event represents an audit event
type Event struct {
	Type      string
	UserID    string
	ClientID  string
	Platform  string
	Details   map[string]any
	Timestamp time.Time
}

// LogEvent logs an event with the user id hashed
func (a *Auditor) LogEvent(event Event) {
	if a == nil || !a.enabled {
		return
	}

	event.Timestamp = a.now()

	a.logger.Info("signin_audit",
		"event_type", event.Type,
		"user_id_hash", hashForLogging(event.UserID),
		"client_id", event.ClientID,
		"platform", event.Platform,
		"details", event.Details,
		"timestamp", event.Timestamp,
	)
}

// LogLoginSucceeded logs a completed sign-in
func (a *Auditor) LogLoginSucceeded(userID, clientID, platform, scope string) {
	a.LogEvent(Event{
		Type:     EventLoginSucceeded,
		UserID:   userID,
		ClientID: clientID,
		Platform: platform,
		Details: map[string]any{
			"scope": scope,
		},
	})
}

// LogLoginCancelled logs a sign-in the user aborted
func (a *Auditor) LogLoginCancelled(clientID, platform string) {
	a.LogEvent(Event{
		Type:     EventLoginCancelled,
		ClientID: clientID,
		Platform: platform,
	})
}

// LogLoginFailed logs a sign-in that ended with an error
func (a *Auditor) LogLoginFailed(clientID, platform, reason string) {
	a.LogEvent(Event{
		Type:     EventLoginFailed,
		ClientID: clientID,
		Platform: platform,
		Details: map[string]any{
			"reason": reason,
		},
	})
}

// LogTokenRevoked logs a sign-out
func (a *Auditor) LogTokenRevoked(clientID string, clientIDProvided bool) {
	a.LogEvent(Event{
		Type:     EventTokenRevoked,
		ClientID: clientID,
		Details: map[string]any{
			"client_id_provided": clientIDProvided,
		},
	})
}

// LogRevokeFailed logs a sign-out that ended with an error
func (a *Auditor) LogRevokeFailed(clientID, reason string) {
	a.LogEvent(Event{
		Type:     EventRevokeFailed,
		ClientID: clientID,
		Details: map[string]any{
			"reason": reason,
		},
	})
}

// hashForLogging returns a short SHA-256 fingerprint of a sensitive value
func hashForLogging(sensitive string) string {
	if sensitive == "" {
		return "<empty>"
	}
	hash := sha256.Sum256([]byte(sensitive))
	return hex.EncodeToString(hash[:])[:16]
}
