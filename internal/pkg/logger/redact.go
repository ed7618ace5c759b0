package logger

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	uuidRegex  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// redactValue masks secrets in a log field. Preview UUIDs grant read access
// to unpublished posts, so they are treated like credentials.
func redactValue(key, val string) string {
	key = strings.ToLower(key)
	if strings.Contains(key, "email") {
		return RedactEmail(val)
	}
	if strings.Contains(key, "uuid") {
		return RedactUUID(val)
	}
	val = emailRegex.ReplaceAllStringFunc(val, RedactEmail)
	return uuidRegex.ReplaceAllStringFunc(val, RedactUUID)
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

// RedactUUID keeps the first 8 characters of an identifier.
// "d52c42ae-2755-455c-80ec-70b2ec55c903" → "d52c42ae***"
func RedactUUID(id string) string {
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "***"
}
