package directory

import "github.com/sahilm/fuzzy"

// Search returns the places whose name fuzzily matches query, best match first.
// An empty query returns places unchanged.
func Search(places []Place, query string) []Place {
	if query == "" {
		return places
	}

	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}

	matches := fuzzy.Find(query, names)
	out := make([]Place, len(matches))
	for i, match := range matches {
		out[i] = places[match.Index]
	}
	return out
}
