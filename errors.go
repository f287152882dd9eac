package signin

import "strings"

// cancelMarker is matched case-insensitively against error messages of the
// authorization and user-info steps.
const cancelMarker = "user cancelled"

// IsUserCancelled reports whether err signals that the user aborted the sign-in.
// The check is on the message text so that errors from any Authorizer
// implementation are recognized.
func IsUserCancelled(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), cancelMarker)
}
