package util

import "unicode/utf8"

const tokenPreviewLen = 8

// SafeTruncate truncates s to at most maxLen bytes without panicking. The cut
// never splits a UTF-8 sequence, so the result may be shorter than maxLen.
// A negative maxLen is treated as 0.
//
// Example:
//
//	SafeTruncate("ya29.a0AfH6SMBx", 8) // Returns: "ya29.a0A"
//	SafeTruncate("short", 10)          // Returns: "short"
func SafeTruncate(s string, maxLen int) string {
	if maxLen < 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen]
}

// TokenPreview returns a loggable preview of a credential: its first few
// characters followed by an ellipsis. Short values are fully masked.
func TokenPreview(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) <= tokenPreviewLen {
		return "..."
	}
	return SafeTruncate(token, tokenPreviewLen) + "..."
}

// UniqueStrings returns the values of in with duplicates removed. The first
// occurrence of each value wins. The input slice is not modified.
func UniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
