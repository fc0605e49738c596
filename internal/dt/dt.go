// Package dt renders natural-language labels for dates and times.
//
// Since produces a relative label ("just now", "2 hours ago", "a week") and
// Natural a calendar-bucketed one ("yesterday 12:50", "last Monday", "next
// January"). Date-only values use the distinct Date type with the SinceDate
// and NaturalDate variants, so a date can never be compared against a
// timestamp.
//
// Counts of days, weeks, months and years are calendar-correct: they step
// whole calendar units rather than dividing by a fixed duration, so "a
// month" stays accurate across months of different lengths and day counts
// survive daylight-saving shifts.
package dt

import (
	"fmt"
	"math"
	"time"
)

// Date is a calendar date with no time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the given calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf strips the time of day from a timestamp.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// AddDays shifts the date by whole calendar days.
func (d Date) AddDays(days int) Date {
	return DateOf(d.time().AddDate(0, 0, days))
}

func (d Date) String() string {
	return d.time().Format("2006-01-02")
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Since describes how long before or after the reference instant a
// timestamp lies. Past labels end in " ago"; future ones have no suffix.
func Since(then, reference time.Time) string {
	return since(then, reference, true)
}

// SinceDate is Since at date-only granularity, where the finest labels are
// "today", "yesterday" and "tomorrow".
func SinceDate(then, reference Date) string {
	return since(then.time(), reference.time(), false)
}

func since(then, now time.Time, hasTime bool) string {
	var past bool
	var first, second time.Time
	if !then.Before(now) {
		first, second = now, then
	} else {
		past = true
		first, second = then, now
	}
	diff := second.Sub(first)

	if !hasTime && diff == 0 {
		return "today"
	}
	if hasTime && diff < time.Minute {
		if past {
			return "just now"
		}
		return "now"
	}

	ago := ""
	if past {
		ago = " ago"
	}

	if hasTime && diff < time.Hour {
		minutes := int(math.Round(diff.Seconds() / 60))
		return label(minutes, "a minute", "minutes") + ago
	}

	// The day boundary is one calendar day before the later instant, not a
	// raw 24 hour span, so a daylight-saving shift can yield 25 hours.
	if hasTime && first.After(calendarDelta(second, 0, 0, -1)) {
		hours := int(math.Round(diff.Seconds() / 3600))
		return label(hours, "an hour", "hours") + ago
	}

	if !hasTime && diff == 24*time.Hour {
		if past {
			return "yesterday"
		}
		return "tomorrow"
	}

	if first.After(calendarDelta(second, 0, 0, -7)) {
		return label(calendarCount(first, second, 0, 0, 1), "a day", "days") + ago
	}
	if first.After(calendarDelta(second, 0, -1, 0)) {
		return label(calendarCount(first, second, 0, 0, 7), "a week", "weeks") + ago
	}
	if first.After(calendarDelta(second, -1, 0, 0)) {
		return label(calendarCount(first, second, 0, 1, 0), "a month", "months") + ago
	}
	return label(calendarCount(first, second, 1, 0, 0), "a year", "years") + ago
}

func label(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// calendarDelta shifts t by whole calendar units, keeping the wall clock and
// clamping the day of month to the target month's length rather than
// overflowing into the next month.
func calendarDelta(t time.Time, years, months, days int) time.Time {
	year, month, day := t.Date()
	year += years
	if months != 0 {
		m := int(month) - 1 + months
		year += floorDiv(m, 12)
		month = time.Month(mod(m, 12) + 1)
	}
	if n := daysIn(year, month); day > n {
		day = n
	}
	hour, min, sec := t.Clock()
	shifted := time.Date(year, month, day, hour, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		shifted = shifted.AddDate(0, 0, days)
	}
	return shifted
}

// calendarCount counts whole calendar units of the given size between first
// and second, with first before second. It steps back unit by unit from the
// far side, then rounds the remainder against the length of the first unit.
func calendarCount(first, second time.Time, years, months, days int) int {
	count := 0
	previous := second
	afterFirst := calendarDelta(first, years, months, days)
	for previous.After(afterFirst) {
		previous = calendarDelta(previous, -years, -months, -days)
		count++
	}

	diff := previous.Sub(first).Seconds()
	unit := afterFirst.Sub(first).Seconds()
	count += int(math.Round(diff / unit))

	return count
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
