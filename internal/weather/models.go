package weather

import (
	"time"
)

// DateLayout is the day format used when talking to forecast providers.
const DateLayout = "2006-01-02"

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Entry expresses the condition the way OpenWeatherMap does (group, description
// and daytime icon code), so every provider yields the same icon set.
func (c Condition) Entry() ConditionEntry {
	switch c {
	case ConditionClear:
		return ConditionEntry{Main: "Clear", Description: "clear sky", Icon: "01d"}
	case ConditionCloudy:
		return ConditionEntry{Main: "Clouds", Description: "scattered clouds", Icon: "03d"}
	case ConditionRain:
		return ConditionEntry{Main: "Rain", Description: "rain", Icon: "10d"}
	case ConditionSnow:
		return ConditionEntry{Main: "Snow", Description: "snow", Icon: "13d"}
	case ConditionStorm:
		return ConditionEntry{Main: "Thunderstorm", Description: "thunderstorm", Icon: "11d"}
	case ConditionMist:
		return ConditionEntry{Main: "Mist", Description: "mist", Icon: "50d"}
	default:
		return ConditionEntry{Main: "Unknown", Description: "unknown"}
	}
}

// CityQuery identifies a city for which a forecast is requested.
type CityQuery struct {
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
}

// Key returns a canonical string key for indexing this query in caches.
func (q CityQuery) Key() string {
	return q.CityName + ":" + q.CountryCode
}

// City names the place a forecast belongs to. Name is the city as it was
// requested; ResolvedName is the provider's own spelling.
type City struct {
	Name         string `json:"name"`
	Country      string `json:"country,omitempty"`
	ResolvedName string `json:"resolvedName,omitempty"`
}

// Temperature is a daily range in degrees Celsius.
type Temperature struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ConditionEntry is one weather condition reported for a day.
type ConditionEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ForecastSample is one day's prediction for a city.
type ForecastSample struct {
	Date     time.Time        `json:"date"` // UTC midnight
	Temp     Temperature      `json:"temp"`
	Humidity float64          `json:"humidity"`
	Weather  []ConditionEntry `json:"weather"`
}

// CityForecast is a provider's answer for a single city, ordered by Date ascending.
type CityForecast struct {
	City           City             `json:"city"`
	DailyForecasts []ForecastSample `json:"dailyForecasts"`
	FetchedAt      time.Time        `json:"fetchedAt"`
}
