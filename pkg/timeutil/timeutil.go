package timeutil

import "time"

// StartOfDay normalizes an instant to 00:00:00 UTC of its calendar day.
// Every ledger write and every aggregation window boundary goes through
// this function; buckets produced here are comparable with ==.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysAgo returns the start of the UTC day `days` days before the given
// instant's day. DaysAgo(t, 0) == StartOfDay(t).
func DaysAgo(t time.Time, days int) time.Time {
	return StartOfDay(t).AddDate(0, 0, -days)
}
