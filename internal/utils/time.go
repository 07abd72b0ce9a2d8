package utils

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotIso indicates the text is not an RFC3339 timestamp.
var ErrNotIso = errors.New("date not iso")

// NowUTC returns the current instant in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatTime renders t as RFC3339 in UTC, keeping sub-second precision.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseUTC parses RFC3339 text and returns the instant in UTC.
func ParseUTC(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNotIso, s)
	}
	return t.UTC(), nil
}

// NowUTCPlusSecStr formats now plus sec seconds. Fractions are kept to the nanosecond.
func NowUTCPlusSecStr(sec float64) string {
	return FormatTime(NowUTC().Add(time.Duration(sec * float64(time.Second))))
}
