// Package mock provides a mock implementation of the provider capabilities for testing.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/giantswarm/google-signin/providers"
)

// MockProvider implements providers.Authorizer, providers.Revoker and
// providers.UserInfoFetcher. Each method delegates to the matching Func field
// and records the call.
type MockProvider struct {
	// AuthorizeFunc is called when Authorize() is invoked
	AuthorizeFunc func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error)

	// RevokeFunc is called when Revoke() is invoked
	RevokeFunc func(ctx context.Context, cfg providers.RevokeConfig, req providers.RevokeRequest) (*providers.RevokeResult, error)

	// FetchUserInfoFunc is called when FetchUserInfo() is invoked
	FetchUserInfoFunc func(ctx context.Context, accessToken string) (*providers.UserInfo, error)

	// CallCounts tracks how many times each method was called
	CallCounts map[string]int

	// Calls lists method names in invocation order
	Calls []string

	// Last arguments seen by each method
	LastAuthorizeRequest providers.AuthorizeRequest
	LastRevokeConfig     providers.RevokeConfig
	LastRevokeRequest    providers.RevokeRequest
	LastAccessToken      string

	// mu protects the recorded calls from concurrent access
	mu sync.RWMutex
}

var (
	_ providers.Authorizer      = (*MockProvider)(nil)
	_ providers.Revoker         = (*MockProvider)(nil)
	_ providers.UserInfoFetcher = (*MockProvider)(nil)
)

// NewMockProvider creates a new mock provider with default implementations
func NewMockProvider() *MockProvider {
	return &MockProvider{
		CallCounts: make(map[string]int),
		AuthorizeFunc: func(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
			return &providers.TokenResponse{
				AccessToken:  "mock-access-token",
				IDToken:      "mock-id-token",
				RefreshToken: "mock-refresh-token",
				TokenType:    "Bearer",
				Expiry:       time.Now().Add(time.Hour),
				Extra:        map[string]any{},
			}, nil
		},
		RevokeFunc: func(ctx context.Context, cfg providers.RevokeConfig, req providers.RevokeRequest) (*providers.RevokeResult, error) {
			return &providers.RevokeResult{Revoked: true, StatusCode: 200}, nil
		},
		FetchUserInfoFunc: func(ctx context.Context, accessToken string) (*providers.UserInfo, error) {
			return &providers.UserInfo{
				ID:         "mock-user-123",
				Email:      "mock@example.com",
				Name:       "Mock User",
				GivenName:  "Mock",
				FamilyName: "User",
				Picture:    "https://example.com/mock.png",
			}, nil
		},
	}
}

// record must be called with mu held
func (m *MockProvider) record(method string) {
	if m.CallCounts == nil {
		m.CallCounts = make(map[string]int)
	}
	m.CallCounts[method]++
	m.Calls = append(m.Calls, method)
}

// Authorize runs the interactive authorization
func (m *MockProvider) Authorize(ctx context.Context, req providers.AuthorizeRequest) (*providers.TokenResponse, error) {
	// Lock only to record the call and read the function reference; the
	// function may call back into the mock.
	m.mu.Lock()
	m.record("Authorize")
	m.LastAuthorizeRequest = req
	fn := m.AuthorizeFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("AuthorizeFunc not configured")
	}
	return fn(ctx, req)
}

// Revoke revokes a token at the provider
func (m *MockProvider) Revoke(ctx context.Context, cfg providers.RevokeConfig, req providers.RevokeRequest) (*providers.RevokeResult, error) {
	m.mu.Lock()
	m.record("Revoke")
	m.LastRevokeConfig = cfg
	m.LastRevokeRequest = req
	fn := m.RevokeFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("RevokeFunc not configured")
	}
	return fn(ctx, cfg, req)
}

// FetchUserInfo returns the profile for an access token
func (m *MockProvider) FetchUserInfo(ctx context.Context, accessToken string) (*providers.UserInfo, error) {
	m.mu.Lock()
	m.record("FetchUserInfo")
	m.LastAccessToken = accessToken
	fn := m.FetchUserInfoFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("FetchUserInfoFunc not configured")
	}
	return fn(ctx, accessToken)
}

// ResetCallCounts resets all call records
func (m *MockProvider) ResetCallCounts() {
	m.mu.Lock()
	m.CallCounts = make(map[string]int)
	m.Calls = nil
	m.mu.Unlock()
}

// GetCallCount returns the number of times a method was called
func (m *MockProvider) GetCallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.CallCounts[method]
}

// GetCalls returns a copy of the method names in invocation order
func (m *MockProvider) GetCalls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.Calls...)
}
