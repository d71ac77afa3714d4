// Package htmlsanitize strips markup from user-supplied text before it is stored.
// It uses bluemonday's strict policy, which removes every element and attribute.
package htmlsanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy for plain-text fields.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText removes all HTML from s and returns the remaining text.
// Entities escaped by the policy are decoded again so "Ana & Bia" survives
// unchanged; the result is meant for storage, not for direct HTML output.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(getPolicy().Sanitize(s))
}
