package util

import (
	"regexp"
	"strings"
)

var (
	// Matches "X-API-Key: <value>" header echoes. Upstream error strings and
	// HTTP debug output sometimes include request headers verbatim.
	apiKeyHeaderRe = regexp.MustCompile(`(?i)\bX-API-Key\b\s*[:=]\s*[^\s"'<]+`)

	// Common key=value formats that sometimes leak in error strings.
	apiKeyKVRe = regexp.MustCompile(`(?i)\b(api[_-]?key|vouched[_-]?private[_-]?api[_-]?key)\b\s*[:=]\s*[^\s"'<]+`)
)

// RedactSecrets removes obvious secret-bearing substrings from error/log strings.
//
// This is intentionally conservative: it should be safe to call on any message,
// including user-provided inputs and upstream error strings.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := s
	out = apiKeyHeaderRe.ReplaceAllString(out, "X-API-Key: <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "$1=<redacted>")
	return strings.TrimSpace(out)
}
