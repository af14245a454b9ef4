package reminder

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// SortByTime orders reminders by their "HH:MM" time, earliest first.
// Reminders with the same time keep their relative order.
func SortByTime(reminders []Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		hi, mi := clock(reminders[i].Time)
		hj, mj := clock(reminders[j].Time)
		if hi != hj {
			return hi < hj
		}
		return mi < mj
	})
}

// clock splits "HH:MM" into hours and minutes. Unparsable halves count as zero.
func clock(s string) (hours, minutes int) {
	h, m, _ := strings.Cut(s, ":")
	hours, _ = strconv.Atoi(strings.TrimSpace(h))
	minutes, _ = strconv.Atoi(strings.TrimSpace(m))
	return hours, minutes
}

// StartsAt combines the reminder's date and time into a single UTC instant.
func (r Reminder) StartsAt() time.Time {
	h, m := clock(r.Time)
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), h, m, 0, 0, time.UTC)
}
