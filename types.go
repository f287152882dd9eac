package signin

import "time"

// Behavior selects how the sign-in UI is presented.
type Behavior string

const (
	// BehaviorWeb runs the sign-in in the system browser. It is the only
	// behavior that is executed.
	BehaviorWeb Behavior = "web"

	// BehaviorSystem asked for the native sign-in UI. Deprecated: it logs a
	// warning and falls back to BehaviorWeb.
	BehaviorSystem Behavior = "system"
)

// ResultType tags a LoginResult.
type ResultType string

const (
	ResultTypeSuccess ResultType = "success"
	ResultTypeCancel  ResultType = "cancel"
)

// LoginConfig is the input of Client.LogIn.
type LoginConfig struct {
	// AndroidClientID is used on Android when ClientID is empty
	AndroidClientID string

	// IOSClientID is used on iOS when ClientID is empty
	IOSClientID string

	// ClientID wins over the per-platform ids on every platform.
	// Browser callers must set it.
	ClientID string

	// Behavior defaults to BehaviorWeb
	Behavior Behavior

	// Scopes requested in addition to profile, email and openid
	Scopes []string
}

// LoginResult is either a cancellation (only Type set) or a successful
// sign-in carrying the tokens and the user profile.
type LoginResult struct {
	Type ResultType `json:"type"`

	AccessToken  string         `json:"accessToken,omitempty"`
	IDToken      string         `json:"idToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	TokenType    string         `json:"tokenType,omitempty"`
	Expiry       time.Time      `json:"expiry,omitzero"`
	Extra        map[string]any `json:"extra,omitempty"`

	User *User `json:"user,omitempty"`
}

// User is the profile of the signed-in user. Fields the provider omits are empty.
type User struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	Email      string `json:"email,omitempty"`
}

// LogoutRequest is the input of Client.LogOut.
type LogoutRequest struct {
	AccessToken string

	// ClientID is sent to the revocation endpoint when set
	ClientID string
}
