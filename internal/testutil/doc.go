// Package testutil provides testing utilities and fixtures for the
// google-signin module: token and profile fixtures, a fake userinfo endpoint,
// a log capturing logger, a controllable clock and assertion helpers.
package testutil
