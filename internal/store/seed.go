package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/i474232898/reminder-calendar/internal/reminder"
)

// seedEntry is one reminder of a YAML seed file.
type seedEntry struct {
	ID          string               `yaml:"id"`
	Description string               `yaml:"description"`
	Date        string               `yaml:"date"` // YYYY-MM-DD
	Time        string               `yaml:"time"`
	Color       string               `yaml:"color"`
	City        *reminder.CityRef    `yaml:"city"`
	Country     *reminder.CountryRef `yaml:"country"`
}

// LoadSeed reads a YAML list of reminders from path and creates them in s.
// It returns the number of reminders created.
func (s *MemoryStore) LoadSeed(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries []seedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parse seed %s: %w", path, err)
	}

	for i, e := range entries {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return i, fmt.Errorf("seed entry %d: invalid date %q: %w", i, e.Date, err)
		}
		_, err = s.Create(reminder.Reminder{
			ID:          e.ID,
			Description: e.Description,
			Date:        date,
			Time:        e.Time,
			Color:       e.Color,
			City:        e.City,
			Country:     e.Country,
		})
		if err != nil {
			return i, fmt.Errorf("seed entry %d: %w", i, err)
		}
	}
	return len(entries), nil
}
