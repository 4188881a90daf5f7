package utils

import (
	"html"
	"time"
)

// TimeLayout is ISO-8601 with millisecond precision, the format every
// timestamp in the store uses.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// escapes special characters in a string to prevent HTML injection
func EscapeString(s string) string {
	return html.EscapeString(s)
}

// Timestamp returns the current UTC time in TimeLayout.
func Timestamp() string {
	return time.Now().UTC().Format(TimeLayout)
}

// ParseTimestamp tolerates any RFC3339-ish input; a zero time sorts first.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
