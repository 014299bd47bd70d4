package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Keys whose string values are message payloads. They are logged as a length.
var bodyKeys = []string{
	"body",
	"message",
	"payload",
}

// Key patterns whose values are secrets and are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"private_key",
}

const redactedValue = "***REDACTED***"

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if IsBodyKey(a.Key) {
			return slog.String(a.Key, BodySummary(a.Value.String()))
		}
		if IsSensitiveKey(a.Key) && a.Value.String() != "" {
			return slog.String(a.Key, redactedValue)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	return a
}

// BodySummary replaces a message payload with its byte length.
func BodySummary(body string) string {
	return "<" + strconv.Itoa(len(body)) + " bytes>"
}

// IsBodyKey reports whether key carries message content.
func IsBodyKey(key string) bool {
	k := strings.ToLower(key)
	for _, b := range bodyKeys {
		if k == b || strings.HasSuffix(k, "_"+b) {
			return true
		}
	}
	return false
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}
