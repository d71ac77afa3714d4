// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls so storage and lookups agree.
package normalize

import "strings"

// Email normalizes an email address by trimming whitespace and converting to lowercase.
// This is the canonical way to normalize emails before storage or comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name normalizes a display name by trimming whitespace and collapsing
// internal runs of whitespace to a single space.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BearerToken extracts the credential from an Authorization header value of
// the form "Bearer <token>". The scheme is matched case-insensitively.
// It returns "" when the header is empty or uses another scheme.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
