package timeutil

import "time"

// DisplayFormat is the layout used for user-facing timestamps.
const DisplayFormat = "2006-01-02 15:04:05"

// ConvertTime renders a stored UTC timestamp in the user's display timezone.
// Unknown or empty timezone names fall back to UTC.
func ConvertTime(t time.Time, timezone string) string {
	loc := time.UTC
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			loc = parsed
		}
	}
	return t.In(loc).Format(DisplayFormat)
}
