package logging

import (
	"regexp"
)

const (
	// MaxTextLogLength is the maximum length of free text to log
	MaxTextLogLength = 80
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection settings
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match potential API keys
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Pattern to match URI credentials (user:pass@host format, e.g. neo4j://u:p@host)
	uriCredsPattern = regexp.MustCompile(`://[^:/]+:[^@]+@[^/\s]+`)
)

// SanitizeURI removes embedded credentials from a connection URI.
// Use this before logging the graph store URI.
func SanitizeURI(uri string) string {
	if uri == "" {
		return ""
	}
	return uriCredsPattern.ReplaceAllString(uri, "://"+RedactedText+"@"+RedactedText)
}

// SanitizeError sanitizes error messages that might contain credentials.
// Use this before logging errors from the graph driver or the model client.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = uriCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// TruncateText truncates free-form profile text for logging. Profile fields
// are PII; log lines carry at most a short prefix for correlation.
func TruncateText(s string) string {
	if len(s) <= MaxTextLogLength {
		return s
	}
	return s[:MaxTextLogLength] + "..."
}
