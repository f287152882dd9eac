package signin

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is the platform the application runs on.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

// ParsePlatform parses a platform name, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform %q (want ios, android or web)", s)
	}
}

// AppOwnership tells whether the application runs inside a generic sandboxed
// host or as a standalone build.
type AppOwnership string

const (
	AppOwnershipSandbox    AppOwnership = "sandbox"
	AppOwnershipStandalone AppOwnership = "standalone"
)

// Runtime reports facts about the running application.
type Runtime interface {
	Platform() Platform
	AppOwnership() AppOwnership
}

// StaticRuntime is a Runtime with fixed answers.
type StaticRuntime struct {
	OS        Platform
	Ownership AppOwnership
}

// Platform implements Runtime
func (r StaticRuntime) Platform() Platform { return r.OS }

// AppOwnership implements Runtime
func (r StaticRuntime) AppOwnership() AppOwnership { return r.Ownership }

// DetectRuntime maps runtime.GOOS to a Platform. Desktop and WebAssembly
// targets sign in through the browser and report PlatformWeb.
func DetectRuntime() StaticRuntime {
	return StaticRuntime{
		OS:        platformForGOOS(runtime.GOOS),
		Ownership: AppOwnershipStandalone,
	}
}

func platformForGOOS(goos string) Platform {
	switch goos {
	case "ios":
		return PlatformIOS
	case "android":
		return PlatformAndroid
	default:
		return PlatformWeb
	}
}
