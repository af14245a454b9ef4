package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/reminder-calendar/internal/common"
	"github.com/i474232898/reminder-calendar/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchDaily(ctx context.Context, q weather.CityQuery, date time.Time) (weather.CityForecast, error) {
	if p.apiKey == "" {
		return weather.CityForecast{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("days", "14")
		// WeatherAPI uses "q" for location; it accepts "city,country".
		query := q.CityName
		if q.CountryCode != "" {
			query = fmt.Sprintf("%s,%s", q.CityName, q.CountryCode)
		}
		values.Set("q", query)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CityForecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Forecast struct {
			Forecastday []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC    float64 `json:"maxtemp_c"`
					MinTempC    float64 `json:"mintemp_c"`
					AvgHumidity float64 `json:"avghumidity"`
					Condition   struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CityForecast{}, err
	}

	samples := make([]weather.ForecastSample, 0, len(payload.Forecast.Forecastday))
	for _, fd := range payload.Forecast.Forecastday {
		d, err := time.Parse(weather.DateLayout, fd.Date)
		if err != nil {
			return weather.CityForecast{}, fmt.Errorf("weatherapi: invalid forecast date %q: %w", fd.Date, err)
		}

		entry := mapWeatherAPICondition(fd.Day.Condition.Text).Entry()
		if text := strings.TrimSpace(fd.Day.Condition.Text); text != "" {
			entry.Description = strings.ToLower(text)
		}

		samples = append(samples, weather.ForecastSample{
			Date:     d,
			Temp:     weather.Temperature{Min: fd.Day.MinTempC, Max: fd.Day.MaxTempC},
			Humidity: fd.Day.AvgHumidity,
			Weather:  []weather.ConditionEntry{entry},
		})
	}

	return weather.CityForecast{
		City:           weather.City{Name: payload.Location.Name, Country: payload.Location.Country},
		DailyForecasts: samples,
	}, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice"):
		return weather.ConditionSnow
	case common.HasAny(text, "mist", "fog"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
