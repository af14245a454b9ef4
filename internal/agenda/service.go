package agenda

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/reminder-calendar/internal/calendar"
	"github.com/i474232898/reminder-calendar/internal/reminder"
	"github.com/i474232898/reminder-calendar/internal/weather"
)

// ReminderStore is the reminder collection the agenda reads and annotates.
type ReminderStore interface {
	Create(r reminder.Reminder) (reminder.Reminder, error)
	Edit(r reminder.Reminder) error
	Delete(id string) error
	Get(id string) (reminder.Reminder, error)
	ByDay(day int, month time.Month, year int) []reminder.Reminder
	ByMonth(month time.Month, year int) []reminder.Reminder
	ByYear(year int) []reminder.Reminder
	SetForecast(r reminder.Reminder) error
}

// ForecastFetcher looks up forecasts for a set of cities on one date.
type ForecastFetcher interface {
	FetchForCities(ctx context.Context, queries []weather.CityQuery, date time.Time) ([]weather.CityForecast, error)
}

// MonthView is a month grid with its reminder flags filled in.
type MonthView struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Days  []calendar.DayCell `json:"days"`
}

// Service composes the calendar grid, the reminder store and the forecast lookup.
type Service struct {
	store     ReminderStore
	forecasts ForecastFetcher
	maxAge    time.Duration
	now       func() time.Time
}

// NewService creates a new Service. Attached forecasts older than maxAge are
// refetched when their day is opened; maxAge <= 0 keeps them forever.
func NewService(store ReminderStore, forecasts ForecastFetcher, maxAge time.Duration) *Service {
	return &Service{
		store:     store,
		forecasts: forecasts,
		maxAge:    maxAge,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Month builds the grid of the given month and flags the days with reminders.
func (s *Service) Month(year int, month time.Month) MonthView {
	grid := calendar.BuildMonthGrid(month, year)
	grid = calendar.Annotate(grid, s.store.ByMonth(month, year))
	return MonthView{Year: year, Month: int(month), Days: grid}
}

// Day returns the reminders of date ordered by time, each located reminder
// carrying the forecast for its city. Forecasts are looked up only when some
// located reminder lacks a fresh one, unless refresh is set.
func (s *Service) Day(ctx context.Context, date time.Time, refresh bool) ([]reminder.Reminder, error) {
	day := calendar.DateOf(date)
	reminders := s.store.ByDay(day.Day(), day.Month(), day.Year())

	if !refresh && !s.needsForecast(reminders) {
		return reminders, nil
	}

	cities := reminder.UniqueCities(reminders)
	if len(cities) == 0 {
		return reminders, nil
	}

	log.Printf("DEBUG: looking up forecasts for %d cities on %s", len(cities), day.Format(weather.DateLayout))
	forecasts, err := s.forecasts.FetchForCities(ctx, cities, day)
	if err != nil {
		return nil, fmt.Errorf("forecast lookup for %s: %w", day.Format(weather.DateLayout), err)
	}

	if err := reminder.MergeForecasts(reminders, forecasts); err != nil {
		return nil, err
	}

	for _, r := range reminders {
		if r.Forecast == nil {
			continue
		}
		if err := s.store.SetForecast(r); err != nil {
			// Edited or deleted while the lookup was in flight.
			log.Printf("INFO: forecast for reminder %s not stored: %v", r.ID, err)
		}
	}

	reminder.SortByTime(reminders)
	return reminders, nil
}

// RefreshUpcoming looks up forecasts for every day in [from, from+days) that has
// reminders. Failures are logged and the first one is returned once all days ran.
func (s *Service) RefreshUpcoming(ctx context.Context, from time.Time, days int) error {
	start := calendar.DateOf(from)

	var firstErr error
	refreshed := 0
	for i := 0; i < days; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		day := start.AddDate(0, 0, i)
		if len(s.store.ByDay(day.Day(), day.Month(), day.Year())) == 0 {
			continue
		}

		if _, err := s.Day(ctx, day, false); err != nil {
			log.Printf("ERROR: forecast refresh failed for %s: %v", day.Format(weather.DateLayout), err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		refreshed++
	}

	log.Printf("INFO: refreshed forecasts for %d days starting %s", refreshed, start.Format(weather.DateLayout))
	return firstErr
}

func (s *Service) needsForecast(reminders []reminder.Reminder) bool {
	now := s.now()
	for _, r := range reminders {
		if !r.HasLocation() {
			continue
		}
		if r.Forecast == nil {
			return true
		}
		if s.maxAge > 0 && now.Sub(r.Forecast.FetchedAt) > s.maxAge {
			return true
		}
	}
	return false
}

func (s *Service) Create(r reminder.Reminder) (reminder.Reminder, error) {
	return s.store.Create(r)
}

func (s *Service) Edit(r reminder.Reminder) error {
	return s.store.Edit(r)
}

func (s *Service) Delete(id string) error {
	return s.store.Delete(id)
}

func (s *Service) Get(id string) (reminder.Reminder, error) {
	return s.store.Get(id)
}

func (s *Service) ByMonth(year int, month time.Month) []reminder.Reminder {
	return s.store.ByMonth(month, year)
}

func (s *Service) ByYear(year int) []reminder.Reminder {
	return s.store.ByYear(year)
}
