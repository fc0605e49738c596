package dt

import "time"

type bucket int

const (
	yearBefore bucket = iota
	lastYear
	thisYear
	lastWeek
	thisWeek
	yesterday
	today
	tomorrow
	nextWeek
	nextYear
	yearAfter
)

// layouts holds a date-only and a with-time layout per bucket. Words like
// "yesterday" and "next" contain no reference-layout tokens, so they pass
// through time.Format untouched.
var layouts = [...][2]string{
	yearBefore: {"January 2006", "January 2006"},
	lastYear:   {"last January", "last January"},
	thisYear:   {"2 January", "2 January 15:04"},
	lastWeek:   {"last Monday", "last Monday 15:04"},
	thisWeek:   {"Monday", "Monday 15:04"},
	yesterday:  {"yesterday", "yesterday 15:04"},
	today:      {"today", "15:04"},
	tomorrow:   {"tomorrow", "tomorrow 15:04"},
	nextWeek:   {"next Monday", "next Monday 15:04"},
	nextYear:   {"next January", "next January"},
	yearAfter:  {"January 2006", "January 2006"},
}

// Natural renders a timestamp as a calendar-bucketed label relative to the
// reference, appending the time of day where the bucket carries one.
func Natural(then, reference time.Time) string {
	b := classify(DateOf(then), DateOf(reference))
	return then.Format(layouts[b][1])
}

// NaturalDate is Natural at date-only granularity.
func NaturalDate(then, reference Date) string {
	b := classify(then, reference)
	return then.time().Format(layouts[b][0])
}

// classify buckets a date against a reference date. Week windows are
// anchored on the Monday of the reference week and are half-open, so the
// date exactly one week after the end of "this week" already falls outside
// "next week".
func classify(then, now Date) bucket {
	t, n := then.time(), now.time()
	switch {
	case t.Equal(n):
		return today
	case t.Equal(calendarDelta(n, 0, 0, -1)):
		return yesterday
	case t.Equal(calendarDelta(n, 0, 0, 1)):
		return tomorrow
	}

	monday := calendarDelta(n, 0, 0, -mondayIndex(n.Weekday()))
	prev := calendarDelta(monday, 0, 0, -7)
	next := calendarDelta(monday, 0, 0, 7)
	fortnight := calendarDelta(monday, 0, 0, 14)
	switch {
	case !t.Before(prev) && t.Before(monday):
		return lastWeek
	case !t.Before(monday) && t.Before(next):
		return thisWeek
	case !t.Before(next) && t.Before(fortnight):
		return nextWeek
	}

	switch {
	case then.Year < now.Year-1:
		return yearBefore
	case then.Year == now.Year-1:
		return lastYear
	case then.Year == now.Year+1:
		return nextYear
	case then.Year > now.Year+1:
		return yearAfter
	default:
		return thisYear
	}
}

// mondayIndex maps a weekday onto a Monday-anchored week, Monday being zero.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
