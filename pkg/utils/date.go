package utils

import "time"

const DateLayout = "2006-01-02"

// DateOnly truncates a timestamp to midnight UTC. Period ends and bar dates
// are compared at day resolution everywhere.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
