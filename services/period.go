package services

import (
	"time"

	"salescrm-backend/utils"
)

// PeriodRange resolves a named reporting period into a [from, to) window.
// "ytd" runs from April 1st, the start of the Indian fiscal year. "custom"
// reads the from/to strings; an unparseable bound falls back to the open
// side. Any other name (or empty) means no window.
func PeriodRange(period, fromRaw, toRaw string, now time.Time) (from, to time.Time) {
	now = now.UTC()
	switch period {
	case "weekly":
		return now.AddDate(0, 0, -7), now
	case "monthly":
		return now.AddDate(0, -1, 0), now
	case "ytd":
		year := now.Year()
		if now.Month() < time.April {
			year--
		}
		return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC), now
	case "custom":
		if ts, ok := utils.ParseDate(fromRaw); ok {
			from = ts
		}
		if ts, ok := utils.ParseDate(toRaw); ok {
			// Inclusive end date: the window closes at the next midnight.
			to = ts.AddDate(0, 0, 1)
		}
		return from, to
	}
	return time.Time{}, time.Time{}
}
