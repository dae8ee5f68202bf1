package utils

import (
	"strings"
	"time"
)

const (
	layoutDate = "2006-01-02"
	layoutTime = "15:04"
)

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseClock parses HH:MM, accepting an optional seconds part.
func ParseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		s = s[:5]
	}
	return time.Parse(layoutTime, s)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}
