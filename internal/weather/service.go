package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrNoProviders is returned when a forecast is requested but no provider is configured.
var ErrNoProviders = errors.New("no weather providers configured")

// Service fans forecast requests out to providers and caches their answers.
type Service struct {
	providers []Provider
	cache     *forecastCache
	now       func() time.Time
}

// NewService creates a new Service. Providers are tried in order for each city.
// cacheSize <= 0 leaves the cache unbounded; maxAge <= 0 never expires entries.
func NewService(providers []Provider, cacheSize int, maxAge time.Duration) *Service {
	return &Service{
		providers: providers,
		cache:     newForecastCache(cacheSize, maxAge),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// FetchForCities fetches the forecast for every query concurrently. The result
// holds one entry per city that has a forecast covering date, in no particular
// order; each entry's samples start at date. If any city fails on every
// provider, the joined errors are returned and no results are.
func (s *Service) FetchForCities(ctx context.Context, queries []CityQuery, date time.Time) ([]CityForecast, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	if len(s.providers) == 0 {
		return nil, ErrNoProviders
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	log.Printf("DEBUG: FetchForCities called for %d cities on %s", len(queries), day.Format(DateLayout))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []CityForecast
		errs    []error
	)

	for _, q := range queries {
		wg.Add(1)
		go func(q CityQuery) {
			defer wg.Done()

			cf, ok, err := s.fetchCity(ctx, q, day)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if ok {
				results = append(results, cf)
			}
		}(q)
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

// fetchCity asks each provider in turn until one has a forecast for day.
// ok is false when the providers answered but none covers day.
func (s *Service) fetchCity(ctx context.Context, q CityQuery, day time.Time) (CityForecast, bool, error) {
	key := cacheKey(q, day.Format(DateLayout))
	if cf, hit := s.cache.get(key, s.now()); hit {
		return cf, true, nil
	}

	var lastErr error
	answered := false

	for _, p := range s.providers {
		cf, err := p.FetchDaily(ctx, q, day)
		if err != nil {
			log.Printf("provider %s forecast failed for %s: %v", p.Name(), q.Key(), err)
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)
			continue
		}
		answered = true

		cf.DailyForecasts = fromDay(cf.DailyForecasts, day)
		if len(cf.DailyForecasts) == 0 {
			log.Printf("INFO: provider %s has no forecast for %s on %s", p.Name(), q.Key(), day.Format(DateLayout))
			continue
		}

		resolved := cf.City.Name
		cf.City = City{Name: q.CityName, Country: q.CountryCode, ResolvedName: resolved}
		cf.FetchedAt = s.now()

		s.cache.put(key, cf)
		return cf, true, nil
	}

	if answered {
		return CityForecast{}, false, nil
	}
	return CityForecast{}, false, fmt.Errorf("forecast for %s: %w", q.Key(), lastErr)
}

// fromDay drops samples dated before day. It returns nil unless the first
// remaining sample is dated day itself.
func fromDay(samples []ForecastSample, day time.Time) []ForecastSample {
	for i, s := range samples {
		if s.Date.Before(day) {
			continue
		}
		if !sameDay(s.Date, day) {
			return nil
		}
		return samples[i:]
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
