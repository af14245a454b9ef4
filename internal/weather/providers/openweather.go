package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/reminder-calendar/internal/common"
	"github.com/i474232898/reminder-calendar/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements the weather.Provider interface for the
// OpenWeatherMap daily forecast.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast/daily",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchDaily looks the city up as "city,CC" and, if that fails, by city name alone.
func (p *OpenWeatherProvider) FetchDaily(ctx context.Context, q weather.CityQuery, date time.Time) (weather.CityForecast, error) {
	if p.apiKey == "" {
		return weather.CityForecast{}, fmt.Errorf("openweather api key is not configured")
	}

	if q.CountryCode == "" {
		return p.fetch(ctx, q.CityName, date)
	}

	cf, err := p.fetch(ctx, fmt.Sprintf("%s,%s", q.CityName, q.CountryCode), date)
	if err != nil {
		log.Printf("INFO: openweather lookup for %s failed, retrying by city name: %v", q.Key(), err)
		return p.fetch(ctx, q.CityName, date)
	}
	return cf, nil
}

func (p *OpenWeatherProvider) fetch(ctx context.Context, query string, date time.Time) (weather.CityForecast, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("cnt", "16")
		values.Set("q", query)
		values.Set("date", date.Format(weather.DateLayout))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CityForecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"city"`
		List []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Humidity float64 `json:"humidity"`
			Weather  []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CityForecast{}, err
	}
	if payload.City.Name == "" {
		return weather.CityForecast{}, fmt.Errorf("openweather: response for %q has no city", query)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		ts := time.Unix(item.Dt, 0).UTC()

		conds := make([]weather.ConditionEntry, 0, len(item.Weather))
		for _, w := range item.Weather {
			conds = append(conds, weather.ConditionEntry{
				Main:        w.Main,
				Description: w.Description,
				Icon:        w.Icon,
			})
		}

		samples = append(samples, weather.ForecastSample{
			Date:     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Temp:     weather.Temperature{Min: item.Temp.Min, Max: item.Temp.Max},
			Humidity: item.Humidity,
			Weather:  conds,
		})
	}

	return weather.CityForecast{
		City:           weather.City{Name: payload.City.Name, Country: payload.City.Country},
		DailyForecasts: samples,
	}, nil
}
