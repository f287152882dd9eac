package signin

import "github.com/giantswarm/google-signin/internal/util"

// RequiredScopes are always requested so that the user profile can be fetched.
var RequiredScopes = []string{"profile", "email", "openid"}

// ResolveScopes returns scopes followed by RequiredScopes with duplicates
// removed. The first occurrence of each scope keeps its position.
func ResolveScopes(scopes []string) []string {
	all := make([]string, 0, len(scopes)+len(RequiredScopes))
	all = append(all, scopes...)
	all = append(all, RequiredScopes...)
	return util.UniqueStrings(all)
}

// ResolveClientID picks the client id for platform p. cfg.ClientID wins when
// set. On the web platform the per-platform ids are never consulted, so a web
// caller without ClientID gets an empty id.
func ResolveClientID(cfg LoginConfig, p Platform) string {
	if cfg.ClientID != "" {
		return cfg.ClientID
	}

	switch p {
	case PlatformIOS:
		return cfg.IOSClientID
	case PlatformAndroid:
		return cfg.AndroidClientID
	case PlatformWeb:
		return cfg.ClientID
	default:
		return ""
	}
}
