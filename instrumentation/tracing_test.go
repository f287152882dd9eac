package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingInstrumentation(t *testing.T) (*Instrumentation, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	inst, err := New(Config{Enabled: true, TracerProvider: tp})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = inst.Shutdown(context.Background()) })

	return inst, recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestRecordError(t *testing.T) {
	inst, recorder := newRecordingInstrumentation(t)

	_, span := inst.Tracer("signin").Start(context.Background(), "test-span")
	RecordError(span, errors.New("test error"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(ended))
	}
	if got := ended[0].Status().Code; got != codes.Error {
		t.Errorf("status = %v, want Error", got)
	}
	if got := ended[0].Status().Description; got != "test error" {
		t.Errorf("status description = %q, want %q", got, "test error")
	}
}

func TestSetSpanSuccess(t *testing.T) {
	inst, recorder := newRecordingInstrumentation(t)

	_, span := inst.Tracer("signin").Start(context.Background(), "test-span")
	SetSpanSuccess(span)
	span.End()

	if got := recorder.Ended()[0].Status().Code; got != codes.Ok {
		t.Errorf("status = %v, want Ok", got)
	}
}

func TestAddLoginAttributes(t *testing.T) {
	tests := []struct {
		name        string
		clientID    string
		wantClient  bool
		wantPresent bool
	}{
		{"with client id", "abc.apps.googleusercontent.com", true, true},
		{"without client id", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, recorder := newRecordingInstrumentation(t)

			_, span := inst.Tracer("signin").Start(context.Background(), "signin.login")
			AddLoginAttributes(span, "https://accounts.google.com", tt.clientID, "ios", "web", []string{"profile", "email", "openid"})
			span.End()

			attrs := attrMap(recorder.Ended()[0].Attributes())
			if got := attrs[AttrScope].AsString(); got != "profile email openid" {
				t.Errorf("scope = %q, want %q", got, "profile email openid")
			}
			if got := attrs[AttrPlatform].AsString(); got != "ios" {
				t.Errorf("platform = %q, want ios", got)
			}
			if got := attrs[AttrClientIDPresent].AsBool(); got != tt.wantPresent {
				t.Errorf("client_id.present = %v, want %v", got, tt.wantPresent)
			}
			if _, ok := attrs[AttrClientID]; ok != tt.wantClient {
				t.Errorf("client_id attribute present = %v, want %v", ok, tt.wantClient)
			}
		})
	}
}

func TestAddTokenAttributes(t *testing.T) {
	inst, recorder := newRecordingInstrumentation(t)

	_, span := inst.Tracer("signin").Start(context.Background(), "signin.login")
	AddTokenAttributes(span, "Bearer", true, false)
	SetResult(span, ResultSuccess)
	span.End()

	attrs := attrMap(recorder.Ended()[0].Attributes())
	if got := attrs[AttrTokenType].AsString(); got != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", got)
	}
	if !attrs[AttrIDTokenPresent].AsBool() {
		t.Error("id_token.present should be true")
	}
	if attrs[AttrRefreshPresent].AsBool() {
		t.Error("refresh_token.present should be false")
	}
	if got := attrs[AttrResult].AsString(); got != ResultSuccess {
		t.Errorf("result = %q, want %q", got, ResultSuccess)
	}
}

func TestNilSafeHelpers(t *testing.T) {
	// Should not panic
	RecordError(nil, errors.New("x"))
	SetSpanSuccess(nil)
	SetSpanAttributes(nil, attribute.String("k", "v"))
	AddLoginAttributes(nil, "", "", "", "", nil)
	AddTokenAttributes(nil, "", false, false)
	AddProviderAttributes(nil, "google", "userinfo")
	SetResult(nil, ResultError)
}
