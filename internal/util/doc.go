// Package util provides small helpers shared across the google-signin packages.
//
// Key utilities:
//   - SafeTruncate / TokenPreview: shorten credentials before they reach a log line
//   - UniqueStrings: order-preserving de-duplication used for scope sets
//   - ClassifyIP / IsLoopbackHostname: address checks for issuer URLs and
//     loopback redirect URIs
package util
