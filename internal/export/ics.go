package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/i474232898/reminder-calendar/internal/reminder"
)

const (
	productID     = "-//reminder-calendar//EN"
	uidDomain     = "reminder-calendar"
	eventDuration = 30 * time.Minute
)

// ICS renders reminders as a VCALENDAR with one VEVENT each. now is used for
// the CREATED and DTSTAMP properties.
func ICS(reminders []reminder.Reminder, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, r := range reminders {
		start := r.StartsAt()

		event := cal.AddEvent(fmt.Sprintf("%s@%s", r.ID, uidDomain))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(eventDuration))
		event.SetSummary(r.Description)

		if loc := location(r); loc != "" {
			event.SetLocation(loc)
		}
		if desc := forecastText(r.Forecast); desc != "" {
			event.SetDescription(desc)
		}
	}

	return cal.Serialize()
}

func location(r reminder.Reminder) string {
	var parts []string
	if r.City != nil && r.City.Name != "" {
		parts = append(parts, r.City.Name)
	}
	if r.Country != nil {
		switch {
		case r.Country.Name != "":
			parts = append(parts, r.Country.Name)
		case r.Country.ISO2 != "":
			parts = append(parts, r.Country.ISO2)
		}
	}
	return strings.Join(parts, ", ")
}

func forecastText(f *reminder.ForecastInfo) string {
	if f == nil {
		return ""
	}
	text := fmt.Sprintf("min %.1f°C max %.1f°C, humidity %.0f%%", f.Min, f.Max, f.Humidity)
	if f.Weather.Description != "" {
		text = f.Weather.Description + ", " + text
	}
	return "Forecast: " + text
}
