package logger

import "strings"

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

// RedactMobile masks a phone number, keeping only the last two digits.
// "+91 98765 43210" → "***********10"
func RedactMobile(mobile string) string {
	m := strings.TrimSpace(mobile)
	if len(m) <= 2 {
		return "**"
	}
	return strings.Repeat("*", len(m)-2) + m[len(m)-2:]
}
