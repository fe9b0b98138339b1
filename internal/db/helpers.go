package db

import (
	"errors"
	"time"
)

// NullableString maps empty strings to SQL NULL.
func NullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// NullableFloat maps nil pointers to SQL NULL.
func NullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

// FormatTime renders timestamps in the canonical column format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads timestamps written by FormatTime, tolerating the legacy
// space-separated layout.
func ParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
