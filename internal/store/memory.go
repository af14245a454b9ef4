package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/reminder-calendar/internal/calendar"
	"github.com/i474232898/reminder-calendar/internal/reminder"
)

var (
	// ErrNotFound is returned when no reminder has the requested id.
	ErrNotFound = errors.New("reminder not found")

	// ErrDuplicateID is returned when creating a reminder whose id is taken.
	ErrDuplicateID = errors.New("reminder id already exists")

	// ErrLocationChanged is returned by SetForecast when the stored reminder
	// no longer has the date or location the forecast was looked up for.
	ErrLocationChanged = errors.New("reminder date or location changed")
)

// MemoryStore is a concurrency-safe in-memory reminder store. Reminders are kept
// in creation order and every read returns copies.
type MemoryStore struct {
	mu sync.RWMutex

	reminders []reminder.Reminder
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create adds a reminder. An empty ID is replaced by a new UUID, the date is
// reduced to its calendar day and any forecast is discarded.
func (s *MemoryStore) Create(r reminder.Reminder) (reminder.Reminder, error) {
	r = r.Clone()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Date = calendar.DateOf(r.Date)
	r.Forecast = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(r.ID) != -1 {
		return reminder.Reminder{}, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	s.reminders = append(s.reminders, r)
	return r.Clone(), nil
}

// Edit replaces the reminder with the same ID. Its forecast is dropped so the
// next day view looks it up again.
func (s *MemoryStore) Edit(r reminder.Reminder) error {
	r = r.Clone()
	r.Date = calendar.DateOf(r.Date)
	r.Forecast = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(r.ID)
	if i == -1 {
		return notFound(r.ID)
	}
	s.reminders[i] = r
	return nil
}

// Delete removes the reminder with the given id.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i == -1 {
		return notFound(id)
	}
	s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
	return nil
}

// Get returns the reminder with the given id.
func (s *MemoryStore) Get(id string) (reminder.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i == -1 {
		return reminder.Reminder{}, notFound(id)
	}
	return s.reminders[i].Clone(), nil
}

// SetForecast stores r.Forecast on the reminder with r.ID, provided the stored
// reminder still has r's date and location. A nil forecast clears it.
func (s *MemoryStore) SetForecast(r reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(r.ID)
	if i == -1 {
		return notFound(r.ID)
	}

	stored := &s.reminders[i]
	wantKey, wantOK := r.LookupKey()
	gotKey, gotOK := stored.LookupKey()
	if wantKey != gotKey || wantOK != gotOK || !stored.Date.Equal(calendar.DateOf(r.Date)) {
		return fmt.Errorf("%w: reminder %s", ErrLocationChanged, r.ID)
	}

	if r.Forecast == nil {
		stored.Forecast = nil
		return nil
	}
	cp := *r.Forecast
	stored.Forecast = &cp
	return nil
}

// All returns every reminder in creation order.
func (s *MemoryStore) All() []reminder.Reminder {
	return s.filter(func(reminder.Reminder) bool { return true })
}

// ByDay returns the reminders of one day ordered by time.
func (s *MemoryStore) ByDay(day int, month time.Month, year int) []reminder.Reminder {
	out := s.filter(func(r reminder.Reminder) bool {
		return r.Date.Day() == day && r.Date.Month() == month && r.Date.Year() == year
	})
	reminder.SortByTime(out)
	return out
}

// ByMonth returns the reminders of one month in creation order.
func (s *MemoryStore) ByMonth(month time.Month, year int) []reminder.Reminder {
	return s.filter(func(r reminder.Reminder) bool {
		return r.Date.Month() == month && r.Date.Year() == year
	})
}

// ByYear returns the reminders of one year in creation order.
func (s *MemoryStore) ByYear(year int) []reminder.Reminder {
	return s.filter(func(r reminder.Reminder) bool {
		return r.Date.Year() == year
	})
}

func (s *MemoryStore) filter(keep func(reminder.Reminder) bool) []reminder.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]reminder.Reminder, 0)
	for _, r := range s.reminders {
		if keep(r) {
			result = append(result, r.Clone())
		}
	}
	return result
}

// indexOf must be called with the lock held.
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: reminder with id %s not found", ErrNotFound, id)
}
