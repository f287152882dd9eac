package signin

import "github.com/giantswarm/google-signin/providers/google"

const (
	// Issuer is the OpenID Connect issuer every sign-in and sign-out goes to.
	Issuer = google.Issuer

	// DefaultProviderName labels provider metrics and spans
	DefaultProviderName = "google"
)

// ClientConfig holds Client configuration
type ClientConfig struct {
	// Runtime reports the platform and app ownership.
	// Default: DetectRuntime()
	Runtime Runtime

	// ProviderName labels provider metrics and spans.
	// Default: "google"
	ProviderName string
}

// applyDefaults fills unset fields of a copy of cfg
func applyDefaults(cfg *ClientConfig) *ClientConfig {
	out := ClientConfig{}
	if cfg != nil {
		out = *cfg
	}
	if out.Runtime == nil {
		out.Runtime = DetectRuntime()
	}
	if out.ProviderName == "" {
		out.ProviderName = DefaultProviderName
	}
	return &out
}
