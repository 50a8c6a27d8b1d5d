package utils

import (
	"strconv"
	"time"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseTime accepts RFC 3339 timestamps and plain dates (YYYY-MM-DD, read as UTC midnight).
func ParseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// ParseTimestamp accepts RFC 3339 timestamps only and returns them in UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
