package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Login and logout outcomes used as the "result" attribute
const (
	ResultSuccess = "success"
	ResultCancel  = "cancel"
	ResultError   = "error"
)

// Metrics holds the metric instruments of the sign-in client
type Metrics struct {
	// Sign-in flow
	LoginTotal    metric.Int64Counter
	LoginDuration metric.Float64Histogram
	LogoutTotal   metric.Int64Counter

	// Provider calls (authorize, userinfo, revoke)
	ProviderAPICallsTotal metric.Int64Counter
	ProviderAPIDuration   metric.Float64Histogram
	ProviderAPIErrors     metric.Int64Counter
}

// newMetrics creates all metric instruments
func newMetrics(signinMeter, providerMeter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error
	m.LoginTotal, err = signinMeter.Int64Counter(
		"signin.login.total",
		metric.WithDescription("Number of sign-in attempts by result"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create signin.login.total counter: %w", err)
	}

	m.LoginDuration, err = signinMeter.Float64Histogram(
		"signin.login.duration",
		metric.WithDescription("Sign-in duration in milliseconds, user interaction included"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create signin.login.duration histogram: %w", err)
	}

	m.LogoutTotal, err = signinMeter.Int64Counter(
		"signin.logout.total",
		metric.WithDescription("Number of sign-outs by result"),
		metric.WithUnit("{logout}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create signin.logout.total counter: %w", err)
	}

	m.ProviderAPICallsTotal, err = providerMeter.Int64Counter(
		"provider.api.calls.total",
		metric.WithDescription("Total number of provider API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider.api.calls.total counter: %w", err)
	}

	m.ProviderAPIDuration, err = providerMeter.Float64Histogram(
		"provider.api.duration",
		metric.WithDescription("Provider API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider.api.duration histogram: %w", err)
	}

	m.ProviderAPIErrors, err = providerMeter.Int64Counter(
		"provider.api.errors.total",
		metric.WithDescription("Total number of failed provider API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider.api.errors.total counter: %w", err)
	}

	return m, nil
}

// RecordLogin records the outcome of a sign-in
func (m *Metrics) RecordLogin(ctx context.Context, result, platform string, durationMs float64) {
	attrs := metric.WithAttributes(
		attribute.String("result", result),
		attribute.String("platform", platform),
	)
	m.LoginTotal.Add(ctx, 1, attrs)
	m.LoginDuration.Record(ctx, durationMs, attrs)
}

// RecordLogout records the outcome of a sign-out
func (m *Metrics) RecordLogout(ctx context.Context, result string) {
	m.LogoutTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

// RecordProviderAPICall records one call to a provider capability.
// operation is one of "authorize", "userinfo", "revoke".
func (m *Metrics) RecordProviderAPICall(ctx context.Context, provider, operation string, durationMs float64, err error) {
	status := ResultSuccess
	if err != nil {
		status = ResultError
	}

	m.ProviderAPICallsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.ProviderAPIDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))

	if err != nil {
		m.ProviderAPIErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("operation", operation),
		))
	}
}
