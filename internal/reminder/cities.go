package reminder

// UniqueCities returns the distinct (city name, country code) pairs of the
// located reminders, in order of first appearance. Reminders missing a city
// or a country are skipped.
func UniqueCities(reminders []Reminder) []CityLookupKey {
	seen := make(map[CityLookupKey]struct{})
	var keys []CityLookupKey

	for _, r := range reminders {
		k, ok := r.LookupKey()
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
