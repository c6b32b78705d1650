package logger

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// piiKeys are field names whose values are masked wholesale. Customer feed
// records surface under these keys throughout the service.
var piiKeys = []string{"email", "name", "phone", "address", "customer", "usuario"}

func redactPIIValue(key, val string) string {
	key = strings.ToLower(key)
	for _, k := range piiKeys {
		if strings.Contains(key, k) {
			return RedactValue(val)
		}
	}
	// Redact any embedded emails in generic fields.
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactValue masks an arbitrary identity value, keeping just enough prefix
// to correlate log lines ("avenida la flo…" → "av***").
func RedactValue(val string) string {
	if strings.Contains(val, "@") {
		return RedactEmail(val)
	}
	if len(val) > 2 {
		return val[:2] + "***"
	}
	if val == "" {
		return ""
	}
	return "***"
}
