package weather

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeProvider struct {
	name string
	err  error

	mu    sync.Mutex
	calls int
	byKey map[string]CityForecast
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) FetchDaily(ctx context.Context, q CityQuery, date time.Time) (CityForecast, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return CityForecast{}, f.err
	}
	return f.byKey[q.Key()], nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample(date time.Time, min, max float64) ForecastSample {
	return ForecastSample{
		Date:     date,
		Temp:     Temperature{Min: min, Max: max},
		Humidity: 50,
		Weather:  []ConditionEntry{ConditionClear.Entry()},
	}
}

func TestFetchForCitiesTrimsAndRenames(t *testing.T) {
	p := &fakeProvider{
		name: "fake",
		byKey: map[string]CityForecast{
			"Tébessa:AF": {
				City: City{Name: "Tebessa"},
				DailyForecasts: []ForecastSample{
					sample(day(2022, 11, 30), 1, 2),
					sample(day(2022, 12, 1), 3, 4),
					sample(day(2022, 12, 2), 5, 6),
				},
			},
			"Mendoza:AR": {
				City:           City{Name: "Mendoza"},
				DailyForecasts: []ForecastSample{sample(day(2022, 12, 1), 18, 31)},
			},
		},
	}
	svc := NewService([]Provider{p}, 10, time.Hour)

	queries := []CityQuery{{"Mendoza", "AR"}, {"Tébessa", "AF"}}
	got, err := svc.FetchForCities(context.Background(), queries, day(2022, 12, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(got))
	}

	sort.Slice(got, func(i, j int) bool { return got[i].City.Name < got[j].City.Name })

	if got[1].City.Name != "Tébessa" || got[1].City.ResolvedName != "Tebessa" || got[1].City.Country != "AF" {
		t.Errorf("unexpected city: %+v", got[1].City)
	}
	if first := got[1].DailyForecasts[0]; !first.Date.Equal(day(2022, 12, 1)) || first.Temp.Min != 3 {
		t.Errorf("expected first sample on 2022-12-01, got %+v", first)
	}
	if got[0].FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestFetchForCitiesFallsBackToNextProvider(t *testing.T) {
	failing := &fakeProvider{name: "down", err: errors.New("boom")}
	working := &fakeProvider{
		name: "up",
		byKey: map[string]CityForecast{
			"Paris:FR": {City: City{Name: "Paris"}, DailyForecasts: []ForecastSample{sample(day(2024, 5, 1), 9, 17)}},
		},
	}
	svc := NewService([]Provider{failing, working}, 0, 0)

	got, err := svc.FetchForCities(context.Background(), []CityQuery{{"Paris", "FR"}}, day(2024, 5, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].City.Name != "Paris" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFetchForCitiesPropagatesFailure(t *testing.T) {
	boom := errors.New("network down")
	svc := NewService([]Provider{&fakeProvider{name: "down", err: boom}}, 0, 0)

	got, err := svc.FetchForCities(context.Background(), []CityQuery{{"Paris", "FR"}}, day(2024, 5, 1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no results on failure, got %+v", got)
	}
}

func TestFetchForCitiesSkipsCityWithoutCoverage(t *testing.T) {
	p := &fakeProvider{
		name: "short",
		byKey: map[string]CityForecast{
			"Paris:FR": {City: City{Name: "Paris"}, DailyForecasts: []ForecastSample{sample(day(2024, 5, 1), 9, 17)}},
		},
	}
	svc := NewService([]Provider{p}, 0, 0)

	got, err := svc.FetchForCities(context.Background(), []CityQuery{{"Paris", "FR"}}, day(2024, 6, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no forecast beyond the provider horizon, got %+v", got)
	}
}

func TestFetchForCitiesSkipsForecastStartingLater(t *testing.T) {
	late := &fakeProvider{
		name: "late",
		byKey: map[string]CityForecast{
			"Mendoza:AR": {City: City{Name: "Mendoza"}, DailyForecasts: []ForecastSample{sample(day(2022, 12, 5), 20, 30)}},
		},
	}
	svc := NewService([]Provider{late}, 0, 0)

	got, err := svc.FetchForCities(context.Background(), []CityQuery{{"Mendoza", "AR"}}, day(2022, 12, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no forecast for 2022-12-01, got first sample dated %v", got[0].DailyForecasts[0].Date)
	}

	// A later provider that does cover the day is used instead.
	exact := &fakeProvider{
		name: "exact",
		byKey: map[string]CityForecast{
			"Mendoza:AR": {City: City{Name: "Mendoza"}, DailyForecasts: []ForecastSample{sample(day(2022, 12, 1), 18, 31)}},
		},
	}
	svc = NewService([]Provider{late, exact}, 0, 0)

	got, err = svc.FetchForCities(context.Background(), []CityQuery{{"Mendoza", "AR"}}, day(2022, 12, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].DailyForecasts[0].Date.Equal(day(2022, 12, 1)) || got[0].DailyForecasts[0].Temp.Max != 31 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFetchForCitiesNoProviders(t *testing.T) {
	svc := NewService(nil, 0, 0)
	_, err := svc.FetchForCities(context.Background(), []CityQuery{{"Paris", "FR"}}, day(2024, 5, 1))
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}

	got, err := svc.FetchForCities(context.Background(), nil, day(2024, 5, 1))
	if err != nil || got != nil {
		t.Fatalf("expected empty result for no queries, got %v, %v", got, err)
	}
}

func TestFetchForCitiesUsesCache(t *testing.T) {
	p := &fakeProvider{
		name: "fake",
		byKey: map[string]CityForecast{
			"Paris:FR": {City: City{Name: "Paris"}, DailyForecasts: []ForecastSample{sample(day(2024, 5, 1), 9, 17)}},
		},
	}
	svc := NewService([]Provider{p}, 10, time.Hour)
	q := []CityQuery{{"Paris", "FR"}}

	for i := 0; i < 3; i++ {
		if _, err := svc.FetchForCities(context.Background(), q, day(2024, 5, 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if p.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", p.calls)
	}

	// Expire the cached entry.
	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	if _, err := svc.FetchForCities(context.Background(), q, day(2024, 5, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.calls != 2 {
		t.Errorf("expected refetch after expiry, got %d calls", p.calls)
	}
}

func TestForecastCacheRetention(t *testing.T) {
	c := newForecastCache(2, 0)
	c.put("a", CityForecast{})
	c.put("b", CityForecast{})
	c.put("c", CityForecast{})

	if c.len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.len())
	}
	if _, ok := c.get("a", time.Now()); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.get("c", time.Now()); !ok {
		t.Error("expected newest entry to be kept")
	}
}

func TestConditionEntry(t *testing.T) {
	if e := ConditionRain.Entry(); e.Main != "Rain" || e.Icon != "10d" {
		t.Errorf("unexpected rain entry: %+v", e)
	}
	if e := Condition("fog").Entry(); e.Main != "Unknown" || e.Icon != "" {
		t.Errorf("unexpected fallback entry: %+v", e)
	}
}
