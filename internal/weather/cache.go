package weather

import (
	"sync"
	"time"
)

// forecastCache is a concurrency-safe in-memory cache of provider answers
// keyed by city and day.
type forecastCache struct {
	mu sync.RWMutex

	// key: city key + day, value: forecast
	data  map[string]CityForecast
	order []string // insertion order, oldest first

	// retention configuration
	maxEntries int           // max number of cached forecasts (0 = unlimited)
	maxAge     time.Duration // max age of a cached forecast (0 = unlimited)
}

func newForecastCache(maxEntries int, maxAge time.Duration) *forecastCache {
	return &forecastCache{
		data:       make(map[string]CityForecast),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

func cacheKey(q CityQuery, day string) string {
	return q.Key() + "@" + day
}

// get returns a cached forecast that is still fresh at now.
func (c *forecastCache) get(key string, now time.Time) (CityForecast, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cf, ok := c.data[key]
	if !ok {
		return CityForecast{}, false
	}
	if c.maxAge > 0 && now.Sub(cf.FetchedAt) > c.maxAge {
		return CityForecast{}, false
	}
	return cf, true
}

// put stores a forecast and enforces retention.
func (c *forecastCache) put(key string, cf CityForecast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists {
		c.order = append(c.order, key)
	}
	c.data[key] = cf

	// Enforce retention by count.
	if c.maxEntries > 0 && len(c.order) > c.maxEntries {
		over := len(c.order) - c.maxEntries
		for _, k := range c.order[:over] {
			delete(c.data, k)
		}
		c.order = c.order[over:]
	}
}

func (c *forecastCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
