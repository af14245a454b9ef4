package reminder

import (
	"errors"
	"fmt"

	"github.com/i474232898/reminder-calendar/internal/weather"
)

const iconURLTemplate = "https://openweathermap.org/img/w/%s.png"

// ErrMalformedForecast is returned when a provider's forecast lacks the fields a
// reminder forecast is built from.
var ErrMalformedForecast = errors.New("malformed forecast")

// MergeForecasts attaches to every located reminder the first daily sample of
// the forecast whose city name equals the reminder's city name. The first such
// forecast wins when several share a name. Any existing Forecast is replaced.
//
// Reminders without a location, or whose city has no forecast, are not touched.
// If a matching forecast is malformed, ErrMalformedForecast is returned and no
// reminder is modified.
func MergeForecasts(reminders []Reminder, forecasts []weather.CityForecast) error {
	byName := make(map[string]weather.CityForecast, len(forecasts))
	for _, cf := range forecasts {
		if _, exists := byName[cf.City.Name]; !exists {
			byName[cf.City.Name] = cf
		}
	}

	infos := make(map[int]ForecastInfo)
	for i, r := range reminders {
		if !r.HasLocation() {
			continue
		}
		cf, ok := byName[r.City.Name]
		if !ok {
			continue
		}
		info, err := forecastInfo(cf)
		if err != nil {
			return fmt.Errorf("forecast for %s: %w", r.City.Name, err)
		}
		infos[i] = info
	}

	for i, info := range infos {
		info := info
		reminders[i].Forecast = &info
	}
	return nil
}

func forecastInfo(cf weather.CityForecast) (ForecastInfo, error) {
	if len(cf.DailyForecasts) == 0 {
		return ForecastInfo{}, fmt.Errorf("%w: no daily samples", ErrMalformedForecast)
	}
	s := cf.DailyForecasts[0]
	if len(s.Weather) == 0 {
		return ForecastInfo{}, fmt.Errorf("%w: no weather condition", ErrMalformedForecast)
	}
	cond := s.Weather[0]

	return ForecastInfo{
		Min:      s.Temp.Min,
		Max:      s.Temp.Max,
		Humidity: s.Humidity,
		Weather: WeatherSummary{
			Type:        cond.Main,
			Description: cond.Description,
			IconURL:     iconURL(cond.Icon),
		},
		FetchedAt: cf.FetchedAt,
	}, nil
}

func iconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf(iconURLTemplate, icon)
}
