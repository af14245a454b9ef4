package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/reminder-calendar/internal/common"
	"github.com/i474232898/reminder-calendar/internal/weather"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// Geocoder resolves a city to coordinates.
type Geocoder interface {
	Locate(city, country string) (lat, lon float64, err error)
}

type googleGeocoder struct{}

// NewGoogleGeocoder returns a Geocoder backed by the Google Geocoding API.
func NewGoogleGeocoder(apiKey string) Geocoder {
	geocoder.ApiKey = apiKey
	return googleGeocoder{}
}

func (googleGeocoder) Locate(city, country string) (float64, float64, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	geocoder Geocoder
	httpCfg  common.HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, geo Geocoder) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		geocoder: geo,
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, q weather.CityQuery, date time.Time) (weather.CityForecast, error) {
	if p.geocoder == nil {
		return weather.CityForecast{}, fmt.Errorf("openmeteo requires a geocoder")
	}

	lat, lon, err := p.geocoder.Locate(q.CityName, q.CountryCode)
	if err != nil {
		return weather.CityForecast{}, fmt.Errorf("geocoding %s: %w", q.Key(), err)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean")
		values.Set("timezone", "UTC")
		values.Set("start_date", date.Format(weather.DateLayout))
		values.Set("end_date", date.Format(weather.DateLayout))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CityForecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weathercode"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
			Humidity    []float64 `json:"relative_humidity_2m_mean"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CityForecast{}, err
	}

	d := payload.Daily
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.TempMax) != n || len(d.TempMin) != n || len(d.Humidity) != n {
		return weather.CityForecast{}, fmt.Errorf("openmeteo: daily series have mismatched lengths")
	}

	samples := make([]weather.ForecastSample, 0, n)
	for i := range d.Time {
		day, err := time.Parse(weather.DateLayout, d.Time[i])
		if err != nil {
			return weather.CityForecast{}, fmt.Errorf("openmeteo: invalid date %q: %w", d.Time[i], err)
		}
		samples = append(samples, weather.ForecastSample{
			Date:     day,
			Temp:     weather.Temperature{Min: d.TempMin[i], Max: d.TempMax[i]},
			Humidity: d.Humidity[i],
			Weather:  []weather.ConditionEntry{mapOpenMeteoCondition(d.WeatherCode[i]).Entry()},
		})
	}

	return weather.CityForecast{
		City:           weather.City{Name: q.CityName, Country: q.CountryCode},
		DailyForecasts: samples,
	}, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on WMO weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
