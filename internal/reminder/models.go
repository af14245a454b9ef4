package reminder

import (
	"time"

	"github.com/i474232898/reminder-calendar/internal/weather"
)

// MaxDescriptionLength bounds Reminder.Description.
const MaxDescriptionLength = 30

// CityRef identifies a city as listed by the country/city directory.
type CityRef struct {
	ID   int    `json:"id" yaml:"id"`
	ISO2 string `json:"iso2" yaml:"iso2"`
	Name string `json:"name" yaml:"name"`
}

// CountryRef identifies a country as listed by the country/city directory.
type CountryRef struct {
	ID   int    `json:"id" yaml:"id"`
	ISO2 string `json:"iso2" yaml:"iso2"`
	Name string `json:"name" yaml:"name"`
}

// WeatherSummary is the display form of a forecast's main condition.
type WeatherSummary struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	IconURL     string `json:"icon"`
}

// ForecastInfo is the forecast attached to a reminder for its date.
// It is an in-memory annotation and is dropped whenever the reminder is edited.
type ForecastInfo struct {
	Min       float64        `json:"min"`
	Max       float64        `json:"max"`
	Humidity  float64        `json:"humidity"`
	Weather   WeatherSummary `json:"weather"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// Reminder is a note bound to a date and time, optionally located in a city.
type Reminder struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Date        time.Time     `json:"dateTime"` // UTC midnight of the reminder's day
	Time        string        `json:"time"`     // "HH:MM"
	Color       string        `json:"color,omitempty"`
	City        *CityRef      `json:"city,omitempty"`
	Country     *CountryRef   `json:"country,omitempty"`
	Forecast    *ForecastInfo `json:"forecast,omitempty"`
}

// CityLookupKey is the (city, country) pair a forecast is looked up by.
type CityLookupKey = weather.CityQuery

// DayOfMonth reports the day of the month the reminder falls on.
func (r Reminder) DayOfMonth() int {
	return r.Date.Day()
}

// HasLocation reports whether the reminder names both a city and a country,
// which is required before a forecast can be looked up for it.
func (r Reminder) HasLocation() bool {
	return r.City != nil && r.City.Name != "" &&
		r.Country != nil && r.Country.ISO2 != ""
}

// LookupKey returns the (city, country) pair the reminder's forecast is looked
// up by. ok is false when the reminder has no location.
func (r Reminder) LookupKey() (key CityLookupKey, ok bool) {
	if !r.HasLocation() {
		return CityLookupKey{}, false
	}
	return CityLookupKey{CityName: r.City.Name, CountryCode: r.Country.ISO2}, true
}

// Clone returns a deep copy of r.
func (r Reminder) Clone() Reminder {
	out := r
	if r.City != nil {
		c := *r.City
		out.City = &c
	}
	if r.Country != nil {
		c := *r.Country
		out.Country = &c
	}
	if r.Forecast != nil {
		f := *r.Forecast
		out.Forecast = &f
	}
	return out
}
