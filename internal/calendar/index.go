package calendar

// Dated is anything that falls on a day of the month being rendered.
type Dated interface {
	DayOfMonth() int
}

// Annotate sets HasReminder on every cell of grid, true when at least one item
// falls on the cell's day. Items are expected to belong to the grid's month
// already; only the day of month is compared. The grid is updated in place and
// returned.
func Annotate[T Dated](grid []DayCell, items []T) []DayCell {
	days := make(map[int]struct{}, len(items))
	for _, it := range items {
		days[it.DayOfMonth()] = struct{}{}
	}

	for i := range grid {
		_, ok := days[grid[i].Day]
		grid[i].HasReminder = ok
	}
	return grid
}
