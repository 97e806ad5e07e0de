package util

import "time"

// MonthKeyLayout formats a time as its calendar month, e.g. "2026-10"
const MonthKeyLayout = "2006-01"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthKey returns the "YYYY-MM" key of t in its own location
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// LastMonths returns the keys of the n calendar months ending with the month of now,
// oldest first
func LastMonths(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	keys := make([]string, n)
	year, month := now.Year(), int(now.Month())
	for i := n - 1; i >= 0; i-- {
		keys[i] = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format(MonthKeyLayout)
		year, month = PreviousMonth(year, month)
	}
	return keys
}
