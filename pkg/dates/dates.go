// Package dates normalizes the heterogeneous date strings found in the
// backing spreadsheet. Rows are typed by hand across several years of data
// entry, so the same column carries DD-MM-YYYY, ISO, DD-Mon-YYYY, full
// timestamps and the occasional serial epoch value.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried in order. ISO shapes go first so "2025-06-26" is never
// misread; the numeric day/month layouts accept single digits.
var layouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2-Jan-2006",
	"2 Jan 2006",
	"2/1/2006",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-1-2 15:04:05",
	"2-1-2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Parse converts a raw cell value into a calendar date. The boolean reports
// whether the value was understood; garbage input returns (zero, false) and
// never an error or panic.
func Parse(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	// Epoch-like numeric strings. Values above 1e12 are taken as
	// milliseconds, anything else as seconds.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1_000_000_000_000 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}

	return time.Time{}, false
}

// Day truncates a parsed value to midnight UTC so calendar comparisons
// ignore any time-of-day noise carried by timestamp-shaped cells.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole days elapsed from earlier to later, clamped at
// zero when the ledger carries a future-dated row.
func DaysBetween(earlier, later time.Time) int {
	days := int(Day(later).Sub(Day(earlier)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
