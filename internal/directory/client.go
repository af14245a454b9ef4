package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/sony/gobreaker"

	"github.com/i474232898/reminder-calendar/internal/common"
)

// ErrNotConfigured is returned when the directory has no API key.
var ErrNotConfigured = errors.New("country directory is not configured")

// Place is a country or city as listed by the directory.
type Place struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

// Client lists countries and their cities from countrystatecity.in.
// Answers are cached for the life of the process.
type Client struct {
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	mu        sync.RWMutex
	countries []Place
	cities    map[string][]Place
}

func NewClient(client *http.Client, apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.countrystatecity.in/v1",
		httpCfg: common.HTTPClientConfig{
			Client:  client,
			Backoff: common.DefaultBackoff,
		},
		circuit: common.NewCircuitBreaker("countrystatecity"),
		cities:  make(map[string][]Place),
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// ListCountries returns every country known to the directory.
func (c *Client) ListCountries(ctx context.Context) ([]Place, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	c.mu.RLock()
	cached := c.countries
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	countries, err := c.get(ctx, "/countries")
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	c.mu.Lock()
	c.countries = countries
	c.mu.Unlock()

	log.Printf("INFO: loaded %d countries from directory", len(countries))
	return countries, nil
}

// ListCities returns the cities of the country with the given ISO2 code.
func (c *Client) ListCities(ctx context.Context, iso2 string) ([]Place, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	code := strings.ToUpper(strings.TrimSpace(iso2))
	if code == "" {
		return nil, fmt.Errorf("country code is required")
	}

	c.mu.RLock()
	cached, ok := c.cities[code]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	cities, err := c.get(ctx, "/countries/"+url.PathEscape(code)+"/cities")
	if err != nil {
		return nil, fmt.Errorf("list cities of %s: %w", code, err)
	}

	c.mu.Lock()
	c.cities[code] = cities
	c.mu.Unlock()

	return cities, nil
}

func (c *Client) get(ctx context.Context, path string) ([]Place, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-CSCAPI-KEY", c.apiKey)
		return req, nil
	}

	resp, err := common.DoRequest(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	places := make([]Place, 0)
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}
	return places, nil
}
