package signin

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/giantswarm/google-signin/instrumentation"
	"github.com/giantswarm/google-signin/internal/testutil"
	"github.com/giantswarm/google-signin/providers"
	"github.com/giantswarm/google-signin/providers/google"
	"github.com/giantswarm/google-signin/providers/mock"
	"github.com/giantswarm/google-signin/security"
)

var webRuntime = StaticRuntime{OS: PlatformWeb, Ownership: AppOwnershipStandalone}

func newTestClient(t *testing.T, m *mock.MockProvider, rt Runtime) (*Client, *testutil.LogBuffer) {
	t.Helper()

	logger, logs := testutil.NewCaptureLogger()
	client, err := NewClient(m, m, m, &ClientConfig{Runtime: rt}, logger)
	testutil.AssertNoError(t, err)
	return client, logs
}

func TestNewClient(t *testing.T) {
	m := mock.NewMockProvider()

	tests := []struct {
		name       string
		authorizer providers.Authorizer
		revoker    providers.Revoker
		userInfo   providers.UserInfoFetcher
		wantErr    string
	}{
		{"all set", m, m, m, ""},
		{"missing authorizer", nil, m, m, "authorizer is required"},
		{"missing revoker", m, nil, m, "revoker is required"},
		{"missing user info", m, m, nil, "user info fetcher is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.authorizer, tt.revoker, tt.userInfo, nil, nil)
			if tt.wantErr != "" {
				testutil.AssertError(t, err)
				testutil.AssertStringContains(t, err.Error(), tt.wantErr)
				return
			}
			testutil.AssertNoError(t, err)
			if client.config.Runtime == nil {
				t.Error("Runtime should default to DetectRuntime()")
			}
			testutil.AssertEqual(t, client.config.ProviderName, DefaultProviderName)
		})
	}
}

func TestLogIn_Success(t *testing.T) {
	m := mock.NewMockProvider()
	token := testutil.GenerateTestTokenResponse()
	m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
		return token, nil
	}
	client, _ := newTestClient(t, m, webRuntime)

	result, err := client.LogIn(context.Background(), LoginConfig{ClientID: "web-id", Scopes: []string{"calendar"}})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, result.Type, ResultTypeSuccess)
	testutil.AssertEqual(t, result.AccessToken, token.AccessToken)
	testutil.AssertEqual(t, result.IDToken, token.IDToken)
	testutil.AssertEqual(t, result.RefreshToken, token.RefreshToken)
	testutil.AssertEqual(t, result.TokenType, token.TokenType)
	testutil.AssertTimeEqual(t, result.Expiry, token.Expiry, 0)
	if !reflect.DeepEqual(result.Extra, token.Extra) {
		t.Errorf("Extra = %v, want %v", result.Extra, token.Extra)
	}

	want := &User{
		ID:         "mock-user-123",
		Name:       "Mock User",
		GivenName:  "Mock",
		FamilyName: "User",
		PhotoURL:   "https://example.com/mock.png",
		Email:      "mock@example.com",
	}
	if !reflect.DeepEqual(result.User, want) {
		t.Errorf("User = %+v, want %+v", result.User, want)
	}

	req := m.LastAuthorizeRequest
	testutil.AssertEqual(t, req.Issuer, "https://accounts.google.com")
	testutil.AssertEqual(t, req.ClientID, "web-id")
	if !reflect.DeepEqual(req.Scopes, []string{"calendar", "profile", "email", "openid"}) {
		t.Errorf("Scopes = %v", req.Scopes)
	}

	testutil.AssertEqual(t, m.LastAccessToken, token.AccessToken)
	if calls := m.GetCalls(); !reflect.DeepEqual(calls, []string{"Authorize", "FetchUserInfo"}) {
		t.Errorf("calls = %v, want authorize then fetch", calls)
	}
}

// The full path through the real userinfo fetcher against a fake endpoint.
func TestLogIn_UserInfoMapping(t *testing.T) {
	info := &providers.UserInfo{
		ID:         "1",
		Name:       "A B",
		GivenName:  "A",
		FamilyName: "B",
		Picture:    "url",
		Email:      "a@b.com",
	}
	server := testutil.NewUserInfoServer(t, "T", info)

	m := mock.NewMockProvider()
	m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
		return &providers.TokenResponse{AccessToken: "T"}, nil
	}
	fetcher := google.NewUserInfoFetcher(&google.Config{UserInfoURL: server.URL, HTTPClient: server.Client()})

	client, err := NewClient(m, m, fetcher, &ClientConfig{Runtime: webRuntime}, nil)
	testutil.AssertNoError(t, err)

	result, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	testutil.AssertNoError(t, err)

	want := &LoginResult{
		Type:        ResultTypeSuccess,
		AccessToken: "T",
		User: &User{
			ID:         "1",
			Name:       "A B",
			GivenName:  "A",
			FamilyName: "B",
			PhotoURL:   "url",
			Email:      "a@b.com",
		},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("LogIn() = %+v, want %+v", result, want)
	}
}

func TestLogIn_ClientIDByPlatform(t *testing.T) {
	cfg := LoginConfig{IOSClientID: "ios-id", AndroidClientID: "android-id"}

	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformIOS, "ios-id"},
		{PlatformAndroid, "android-id"},
		{PlatformWeb, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			m := mock.NewMockProvider()
			client, _ := newTestClient(t, m, StaticRuntime{OS: tt.platform})

			_, err := client.LogIn(context.Background(), cfg)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, m.LastAuthorizeRequest.ClientID, tt.want)
		})
	}
}

func TestLogIn_Cancelled(t *testing.T) {
	tests := []struct {
		name         string
		authorizeErr error
		userInfoErr  error
	}{
		{name: "authorize mixed case", authorizeErr: errors.New("User Cancelled Login")},
		{name: "authorize lower case", authorizeErr: errors.New("user cancelled login")},
		{name: "authorize sentinel", authorizeErr: providers.ErrUserCancelled},
		{name: "user info step", userInfoErr: errors.New("USER CANCELLED")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockProvider()
			if tt.authorizeErr != nil {
				m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
					return nil, tt.authorizeErr
				}
			}
			if tt.userInfoErr != nil {
				m.FetchUserInfoFunc = func(ctx context.Context, accessToken string) (*providers.UserInfo, error) {
					return nil, tt.userInfoErr
				}
			}
			client, _ := newTestClient(t, m, webRuntime)

			result, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
			testutil.AssertNoError(t, err)
			if !reflect.DeepEqual(result, &LoginResult{Type: ResultTypeCancel}) {
				t.Errorf("LogIn() = %+v, want cancel only", result)
			}
		})
	}
}

type statusError struct{ code int }

func (e *statusError) Error() string { return "status error" }

func TestLogIn_ErrorsReturnedUnchanged(t *testing.T) {
	networkErr := errors.New("network error")
	typedErr := &statusError{code: 500}
	httpErr := &providers.HTTPError{Operation: "userinfo", StatusCode: 401}

	tests := []struct {
		name         string
		authorizeErr error
		userInfoErr  error
		want         error
	}{
		{name: "authorize network error", authorizeErr: networkErr, want: networkErr},
		{name: "authorize typed error", authorizeErr: typedErr, want: typedErr},
		{name: "missing client id", authorizeErr: providers.ErrMissingClientID, want: providers.ErrMissingClientID},
		{name: "user info failure", userInfoErr: httpErr, want: httpErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockProvider()
			if tt.authorizeErr != nil {
				m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
					return nil, tt.authorizeErr
				}
			}
			if tt.userInfoErr != nil {
				m.FetchUserInfoFunc = func(ctx context.Context, accessToken string) (*providers.UserInfo, error) {
					return nil, tt.userInfoErr
				}
			}
			client, _ := newTestClient(t, m, webRuntime)

			result, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
			if err != tt.want { //nolint:errorlint // identity is the contract
				t.Errorf("LogIn() error = %v, want the same value %v", err, tt.want)
			}
			if result != nil {
				t.Errorf("LogIn() result = %+v, want nil on error", result)
			}
		})
	}
}

func TestLogIn_AuthorizeFailureSkipsUserInfo(t *testing.T) {
	m := mock.NewMockProvider()
	m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
		return nil, errors.New("network error")
	}
	client, _ := newTestClient(t, m, webRuntime)

	_, _ = client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	testutil.AssertEqual(t, m.GetCallCount("FetchUserInfo"), 0)
}

func TestLogIn_NilResultsFromCollaborators(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *mock.MockProvider)
		wantErr error
	}{
		{
			name: "authorizer returns no token",
			setup: func(m *mock.MockProvider) {
				m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
					return nil, nil
				}
			},
			wantErr: providers.ErrNoToken,
		},
		{
			name: "fetcher returns no profile",
			setup: func(m *mock.MockProvider) {
				m.FetchUserInfoFunc = func(ctx context.Context, accessToken string) (*providers.UserInfo, error) {
					return nil, nil
				}
			},
			wantErr: providers.ErrNoUserInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockProvider()
			tt.setup(m)
			client, _ := newTestClient(t, m, webRuntime)

			result, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LogIn() error = %v, want %v", err, tt.wantErr)
			}
			if result != nil {
				t.Errorf("LogIn() result = %+v, want nil", result)
			}
		})
	}
}

func TestLogIn_BehaviorWarning(t *testing.T) {
	tests := []struct {
		name      string
		behavior  Behavior
		ownership AppOwnership
		wantWarn  string
	}{
		{"default behavior", "", AppOwnershipStandalone, ""},
		{"web behavior", BehaviorWeb, AppOwnershipSandbox, ""},
		{"system in sandbox", BehaviorSystem, AppOwnershipSandbox, warnSandboxedNative},
		{"system standalone", BehaviorSystem, AppOwnershipStandalone, warnDeprecatedNative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockProvider()
			client, logs := newTestClient(t, m, StaticRuntime{OS: PlatformWeb, Ownership: tt.ownership})

			result, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c", Behavior: tt.behavior})
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, result.Type, ResultTypeSuccess)

			out := logs.String()
			if tt.wantWarn == "" {
				testutil.AssertStringNotContains(t, out, "level=WARN")
				return
			}
			testutil.AssertStringContains(t, out, "level=WARN")
			testutil.AssertStringContains(t, out, tt.wantWarn)
			// the flow still runs in the browser
			testutil.AssertEqual(t, m.GetCallCount("Authorize"), 1)
		})
	}
}

func TestLogIn_DebugLogTruncatesTokens(t *testing.T) {
	m := mock.NewMockProvider()
	token := testutil.GenerateTestTokenResponse()
	m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
		return token, nil
	}
	client, logs := newTestClient(t, m, webRuntime)

	_, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	testutil.AssertNoError(t, err)

	out := logs.String()
	testutil.AssertStringContains(t, out, "Google sign-in succeeded")
	testutil.AssertStringContains(t, out, "user_email=mock@example.com")
	testutil.AssertStringContains(t, out, token.AccessToken[:8]+"...")
	for _, secret := range []string{token.AccessToken, token.IDToken, token.RefreshToken} {
		testutil.AssertStringNotContains(t, out, secret)
	}
}

func TestLogOut(t *testing.T) {
	tests := []struct {
		name         string
		req          LogoutRequest
		wantProvided bool
	}{
		{"with client id", LogoutRequest{AccessToken: "T", ClientID: "C"}, true},
		{"without client id", LogoutRequest{AccessToken: "T"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockProvider()
			client, _ := newTestClient(t, m, webRuntime)

			result, err := client.LogOut(context.Background(), tt.req)
			testutil.AssertNoError(t, err)
			if !result.Revoked {
				t.Error("result from revoker should be returned")
			}

			testutil.AssertEqual(t, m.LastRevokeConfig, providers.RevokeConfig{Issuer: "https://accounts.google.com", ClientID: tt.req.ClientID})
			testutil.AssertEqual(t, m.LastRevokeRequest, providers.RevokeRequest{Token: "T", IsClientIDProvided: tt.wantProvided})
		})
	}
}

func TestLogOut_ErrorReturnedUnchanged(t *testing.T) {
	revokeErr := &providers.HTTPError{Operation: "revoke", StatusCode: 400}
	m := mock.NewMockProvider()
	m.RevokeFunc = func(ctx context.Context, cfg providers.RevokeConfig, req providers.RevokeRequest) (*providers.RevokeResult, error) {
		return nil, revokeErr
	}
	client, _ := newTestClient(t, m, webRuntime)

	_, err := client.LogOut(context.Background(), LogoutRequest{AccessToken: "T"})
	if err != revokeErr { //nolint:errorlint // identity is the contract
		t.Errorf("LogOut() error = %v, want %v", err, revokeErr)
	}
}

func TestClient_Auditor(t *testing.T) {
	m := mock.NewMockProvider()
	client, _ := newTestClient(t, m, webRuntime)

	auditLogger, auditLogs := testutil.NewCaptureLogger()
	client.SetAuditor(security.NewAuditor(auditLogger, true))

	_, err := client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	testutil.AssertNoError(t, err)
	_, err = client.LogOut(context.Background(), LogoutRequest{AccessToken: "T", ClientID: "c"})
	testutil.AssertNoError(t, err)

	m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
		return nil, providers.ErrUserCancelled
	}
	_, err = client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	testutil.AssertNoError(t, err)

	out := auditLogs.String()
	for _, event := range []string{security.EventLoginSucceeded, security.EventTokenRevoked, security.EventLoginCancelled} {
		testutil.AssertStringContains(t, out, "event_type="+event)
	}
	testutil.AssertStringNotContains(t, out, "mock-user-123")
}

func TestClient_Instrumentation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	inst, err := instrumentation.New(instrumentation.Config{Enabled: true, TracerProvider: tp})
	testutil.AssertNoError(t, err)
	defer func() { _ = inst.Shutdown(context.Background()) }()

	m := mock.NewMockProvider()
	client, _ := newTestClient(t, m, webRuntime)
	client.SetInstrumentation(inst)

	_, err = client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	testutil.AssertNoError(t, err)

	m.AuthorizeFunc = func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
		return nil, errors.New("network error")
	}
	_, _ = client.LogIn(context.Background(), LoginConfig{ClientID: "c"})
	_, err = client.LogOut(context.Background(), LogoutRequest{AccessToken: "T"})
	testutil.AssertNoError(t, err)

	ended := recorder.Ended()
	if len(ended) != 3 {
		t.Fatalf("recorded %d spans, want 3", len(ended))
	}

	wantNames := []string{"signin.login", "signin.login", "signin.logout"}
	wantResults := []string{instrumentation.ResultSuccess, instrumentation.ResultError, instrumentation.ResultSuccess}
	for i, span := range ended {
		testutil.AssertEqual(t, span.Name(), wantNames[i])

		var result, tokenAttr string
		for _, a := range span.Attributes() {
			switch string(a.Key) {
			case instrumentation.AttrResult:
				result = a.Value.AsString()
			case instrumentation.AttrTokenType:
				tokenAttr = a.Value.AsString()
			}
			if strings.Contains(a.Value.Emit(), "mock-access-token") {
				t.Errorf("span %s leaks token in attribute %s", span.Name(), a.Key)
			}
		}
		testutil.AssertEqual(t, result, wantResults[i])
		if i == 0 {
			testutil.AssertEqual(t, tokenAttr, "Bearer")
		}
	}
}
