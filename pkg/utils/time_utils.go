// utils/time_utils.go
package utils

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey returns the UTC calendar day of t, e.g. 2025-09-24.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func FormatRFC3339Ptr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := FormatRFC3339(*t)
	return &s
}

// MinutesBetween rounds the elapsed time to whole minutes.
func MinutesBetween(start, end time.Time) int64 {
	return int64(math.Round(end.Sub(start).Minutes()))
}
