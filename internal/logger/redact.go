package logger

import (
	"log/slog"
	"strings"
)

// attribute keys that suggest the value is a credential
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"cookie",
}

const redactedValue = "***REDACTED***"

// RedactAttr is a slog ReplaceAttr hook that hides credentials.
//
// Non-empty string attributes whose key looks sensitive are replaced wholesale.
// Bearer credentials are masked wherever they appear, whatever the key.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}

	v := a.Value.String()
	if v == "" {
		return a
	}

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redactedValue)
	}

	if strings.HasPrefix(strings.ToLower(v), "bearer ") {
		return slog.String(a.Key, "Bearer "+redactedValue)
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// RedactToken masks all but the last four characters of a token
func RedactToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
