package calendar

import (
	"testing"
	"time"
)

type dayOnly int

func (d dayOnly) DayOfMonth() int { return int(d) }

func TestDaysInMonthFebruary(t *testing.T) {
	cases := []struct {
		year int
		want int
	}{
		{2023, 28},
		{2024, 29},
		{2000, 29},
		{1900, 28},
		{2100, 28},
	}

	for _, tc := range cases {
		if got := DaysInMonth(time.February, tc.year); got != tc.want {
			t.Errorf("DaysInMonth(Feb, %d) = %d, want %d", tc.year, got, tc.want)
		}
	}
}

// TestBuildMonthGridComplete checks every month of two centuries against the
// standard library's own month length.
func TestBuildMonthGridComplete(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for m := time.January; m <= time.December; m++ {
			want := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()

			grid := BuildMonthGrid(m, year)
			if len(grid) != want {
				t.Fatalf("%d-%02d: expected %d cells, got %d", year, m, want, len(grid))
			}
			for i, cell := range grid {
				if cell.Day != i+1 {
					t.Fatalf("%d-%02d: cell %d has day %d", year, m, i, cell.Day)
				}
				if cell.WeekdayIndex < 1 || cell.WeekdayIndex > 7 {
					t.Fatalf("%d-%02d-%02d: weekday index %d out of range", year, m, cell.Day, cell.WeekdayIndex)
				}
				if cell.HasReminder {
					t.Fatalf("%d-%02d-%02d: fresh grid should not have reminders", year, m, cell.Day)
				}
			}
		}
	}
}

func TestBuildMonthGridWeekdays(t *testing.T) {
	grid := BuildMonthGrid(time.December, 2022)

	// 2022-12-01 is a Thursday.
	first := grid[0]
	if first.WeekdayName != "Thursday" {
		t.Errorf("expected Thursday, got %s", first.WeekdayName)
	}
	if first.WeekdayIndex != 5 {
		t.Errorf("expected weekday index 5, got %d", first.WeekdayIndex)
	}

	// 2022-12-04 is a Sunday and must wrap to the first column.
	if grid[3].WeekdayName != "Sunday" || grid[3].WeekdayIndex != 1 {
		t.Errorf("expected Sunday at index 1, got %s at %d", grid[3].WeekdayName, grid[3].WeekdayIndex)
	}

	// 2022-12-31 is a Saturday.
	last := grid[len(grid)-1]
	if last.WeekdayName != "Saturday" || last.WeekdayIndex != 7 {
		t.Errorf("expected Saturday at index 7, got %s at %d", last.WeekdayName, last.WeekdayIndex)
	}

	for _, cell := range grid {
		want := int(Date(2022, time.December, cell.Day).Weekday()) + 1
		if cell.WeekdayIndex != want {
			t.Errorf("day %d: expected index %d, got %d", cell.Day, want, cell.WeekdayIndex)
		}
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		value, want int
	}{
		{0, 7},
		{8, 1},
		{4, 4},
		{1, 1},
		{7, 7},
	}
	for _, tc := range cases {
		if got := Wrap(tc.value, 1, 7); got != tc.want {
			t.Errorf("Wrap(%d, 1, 7) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestGeneralWrapMatchesWrapWithinOnePeriod(t *testing.T) {
	for v := -6; v <= 14; v++ {
		if got, want := wrapMod(v, 1, 7), Wrap(v, 1, 7); got != want {
			t.Errorf("wrapMod(%d) = %d, Wrap = %d", v, got, want)
		}
	}
	if got := wrapMod(22, 1, 7); got != 1 {
		t.Errorf("wrapMod(22, 1, 7) = %d, want 1", got)
	}
	if got := wrapMod(-14, 1, 7); got != 7 {
		t.Errorf("wrapMod(-14, 1, 7) = %d, want 7", got)
	}
}

func TestAnnotate(t *testing.T) {
	grid := BuildMonthGrid(time.December, 2022)
	items := []dayOnly{1}

	Annotate(grid, items)
	first := make([]bool, len(grid))
	for i, cell := range grid {
		first[i] = cell.HasReminder
	}

	if len(grid) != 31 {
		t.Fatalf("expected 31 cells, got %d", len(grid))
	}
	if !grid[0].HasReminder {
		t.Error("expected day 1 to have a reminder")
	}
	for _, cell := range grid[1:] {
		if cell.HasReminder {
			t.Errorf("day %d should not have a reminder", cell.Day)
		}
	}

	Annotate(grid, items)
	for i, cell := range grid {
		if cell.HasReminder != first[i] {
			t.Errorf("day %d changed on second annotate", cell.Day)
		}
	}
}

func TestAnnotateClearsStaleFlags(t *testing.T) {
	grid := BuildMonthGrid(time.March, 2024)
	Annotate(grid, []dayOnly{3, 17, 17})
	Annotate(grid, []dayOnly{17})

	for _, cell := range grid {
		want := cell.Day == 17
		if cell.HasReminder != want {
			t.Errorf("day %d: expected %v, got %v", cell.Day, want, cell.HasReminder)
		}
	}
}

func TestDateOfKeepsCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2022, time.December, 1, 23, 30, 0, 0, loc)

	got := DateOf(in)
	if got != Date(2022, time.December, 1) {
		t.Errorf("expected 2022-12-01 UTC, got %v", got)
	}
}
