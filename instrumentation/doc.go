// Package instrumentation provides OpenTelemetry (OTEL) instrumentation for the
// google-signin client.
//
// It supplies:
// - Metrics: counters and histograms for sign-in, sign-out and provider calls
// - Traces: spans around LogIn and LogOut with the resolved request attached
//
// # Quick Start
//
//	import "github.com/giantswarm/google-signin/instrumentation"
//
//	inst, err := instrumentation.New(instrumentation.Config{
//		ServiceName:    "my-app",
//		ServiceVersion: "1.0.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer inst.Shutdown(context.Background())
//
//	client.SetInstrumentation(inst)
//
// When Enabled is true and no TracerProvider or MeterProvider is passed in
// Config, the globally registered providers are used. Register an SDK provider
// with otel.SetTracerProvider to export spans.
//
// When Enabled is false, no-op providers are used and recording has zero
// overhead.
//
// # Metrics
//
//   - signin.login.total{result,platform}
//   - signin.login.duration{result,platform}
//   - signin.logout.total{result}
//   - provider.api.calls.total{provider,operation,status}
//   - provider.api.duration{provider,operation}
//   - provider.api.errors.total{provider,operation}
//
// # Security
//
// Token values are never recorded. Spans carry token type and presence flags
// only. The client id is an OAuth public identifier and is recorded as is.
package instrumentation
