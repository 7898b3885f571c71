package redact

import (
	"regexp"
	"strings"
)

var sensitivePatterns = []*regexp.Regexp{
	// AWS
	regexp.MustCompile(`(?i)(aws_access_key_id|aws_secret_access_key|aws_session_token)\s*[=:]\s*['"]?[A-Za-z0-9/+=]{20,}['"]?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),

	// GitHub
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),

	// Provider API keys passed through /config
	regexp.MustCompile(`sk-(ant-|proj-)?[A-Za-z0-9_-]{20,}`),
	regexp.MustCompile(`xai-[A-Za-z0-9]{20,}`),

	// Generic key=value secrets
	regexp.MustCompile(`(?i)(api_key|apikey|api-key|secret_key|access_token|auth_token)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_-]{20,}`),

	// Basic auth in URLs
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),

	regexp.MustCompile(`(?i)(password|passwd|secret)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),
}

// sensitiveKeyParts mark a configuration key whose value must never be shown.
var sensitiveKeyParts = []string{
	"key", "token", "secret", "password", "passwd", "credential",
}

const Placeholder = "[REDACTED]"

// Redact masks secrets found anywhere in text.
func Redact(text string) string {
	result := text
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, Placeholder)
	}
	return result
}

// Value masks value when key names a secret, and otherwise applies Redact.
func Value(key, value string) string {
	if value == "" {
		return value
	}
	if IsSensitiveKey(key) {
		return Placeholder
	}
	return Redact(value)
}

// IsSensitiveKey reports whether a configuration key holds a secret.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}
