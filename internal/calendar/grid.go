package calendar

import (
	"math"
	"time"
)

const daysPerWeek = 7

// DayCell is a single day of a rendered month.
type DayCell struct {
	Day          int    `json:"day"`
	WeekdayName  string `json:"weekdayName"`
	WeekdayIndex int    `json:"weekdayIndex"` // 1 = Sunday ... 7 = Saturday
	HasReminder  bool   `json:"hasReminder"`
}

// Date returns the UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf keeps only the calendar day of t, read in t's own location, as UTC midnight.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysInMonth counts the days of month in year by measuring the span between
// noon of the first day and the last instant of the month, inclusive of both ends.
func DaysInMonth(month time.Month, year int) int {
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	last := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)

	span := last.Sub(first).Hours()/24 + 1
	return int(math.Round(span))
}

// BuildMonthGrid returns one cell per day of the month, ordered by day.
// month is 1-based (time.January == 1); values outside 1..12 are not supported.
func BuildMonthGrid(month time.Month, year int) []DayCell {
	n := DaysInMonth(month, year)

	grid := make([]DayCell, 0, n)
	for d := 1; d <= n; d++ {
		date := Date(year, month, d)
		grid = append(grid, DayCell{
			Day:          d,
			WeekdayName:  date.Weekday().String(),
			WeekdayIndex: Wrap(isoWeekday(date)+1, 1, daysPerWeek),
		})
	}
	return grid
}

// isoWeekday numbers Monday as 1 through Sunday as 7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return daysPerWeek
	}
	return wd
}

// Wrap brings value back into [lo, hi] with a single circular step.
// It only holds while value is at most one period outside the range; larger
// offsets need ((value - lo) mod period) + lo, as wrapMod computes.
func Wrap(value, lo, hi int) int {
	period := hi - lo + 1
	switch {
	case value < lo:
		return value + period
	case value > hi:
		return value - period
	default:
		return value
	}
}

// wrapMod is the general form of Wrap.
func wrapMod(value, lo, hi int) int {
	period := hi - lo + 1
	r := (value - lo) % period
	if r < 0 {
		r += period
	}
	return r + lo
}
