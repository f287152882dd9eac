package security

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewAuditor(t *testing.T) {
	tests := []struct {
		name    string
		logger  *slog.Logger
		enabled bool
	}{
		{"enabled with logger", slog.Default(), true},
		{"disabled with logger", slog.Default(), false},
		{"enabled with nil logger", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditor := NewAuditor(tt.logger, tt.enabled)
			if auditor.enabled != tt.enabled {
				t.Errorf("enabled = %v, want %v", auditor.enabled, tt.enabled)
			}
			if auditor.logger == nil {
				t.Error("logger should not be nil")
			}
		})
	}
}

func TestAuditor_LogEvent(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		wantLog bool
	}{
		{"enabled", true, true},
		{"disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			auditor := NewAuditor(slog.New(slog.NewTextHandler(&buf, nil)), tt.enabled)

			auditor.LogEvent(Event{
				Type:     "test_event",
				UserID:   "user-123",
				ClientID: "client-456",
				Platform: "ios",
			})

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Fatalf("logged = %v, want %v (output %q)", got, tt.wantLog, buf.String())
			}
			if !tt.wantLog {
				return
			}

			out := buf.String()
			if strings.Contains(out, "user-123") {
				t.Error("user id must be hashed, found raw value in log output")
			}
			for _, want := range []string{"signin_audit", "event_type=test_event", "client_id=client-456", "platform=ios", "user_id_hash="} {
				if !strings.Contains(out, want) {
					t.Errorf("log output missing %q: %s", want, out)
				}
			}
		})
	}
}

func TestAuditor_NilSafe(t *testing.T) {
	var auditor *Auditor
	auditor.LogLoginCancelled("client", "web")
}

func TestAuditor_Helpers(t *testing.T) {
	tests := []struct {
		name      string
		log       func(a *Auditor)
		wantEvent string
		wantExtra string
	}{
		{
			name:      "login succeeded",
			log:       func(a *Auditor) { a.LogLoginSucceeded("user-1", "client", "android", "profile email openid") },
			wantEvent: EventLoginSucceeded,
			wantExtra: "profile email openid",
		},
		{
			name:      "login cancelled",
			log:       func(a *Auditor) { a.LogLoginCancelled("client", "web") },
			wantEvent: EventLoginCancelled,
		},
		{
			name:      "login failed",
			log:       func(a *Auditor) { a.LogLoginFailed("client", "web", "network error") },
			wantEvent: EventLoginFailed,
			wantExtra: "network error",
		},
		{
			name:      "token revoked",
			log:       func(a *Auditor) { a.LogTokenRevoked("client", true) },
			wantEvent: EventTokenRevoked,
			wantExtra: "client_id_provided:true",
		},
		{
			name:      "revoke failed",
			log:       func(a *Auditor) { a.LogRevokeFailed("", "status 400") },
			wantEvent: EventRevokeFailed,
			wantExtra: "status 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			auditor := NewAuditor(slog.New(slog.NewTextHandler(&buf, nil)), true)

			tt.log(auditor)

			out := buf.String()
			if !strings.Contains(out, "event_type="+tt.wantEvent) {
				t.Errorf("log output missing event type %q: %s", tt.wantEvent, out)
			}
			if tt.wantExtra != "" && !strings.Contains(out, tt.wantExtra) {
				t.Errorf("log output missing %q: %s", tt.wantExtra, out)
			}
		})
	}
}

func TestHashForLogging(t *testing.T) {
	if got := hashForLogging(""); got != "<empty>" {
		t.Errorf("hashForLogging(\"\") = %q, want <empty>", got)
	}

	h1 := hashForLogging("user-123")
	h2 := hashForLogging("user-123")
	h3 := hashForLogging("user-456")

	if len(h1) != 16 {
		t.Errorf("hash length = %d, want 16", len(h1))
	}
	if h1 != h2 {
		t.Error("hash should be deterministic")
	}
	if h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
}
