package weather

import (
	"context"
	"time"
)

// Provider abstracts a daily forecast source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
// FetchDaily returns the provider's daily samples for the city, starting no later than date.
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, q CityQuery, date time.Time) (CityForecast, error)
}
