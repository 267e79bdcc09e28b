package wger

import (
	"math/rand"
	"time"
)

// SuggestionCount is how many exercise names a detail view shows at most.
const SuggestionCount = 5

// Suggest picks up to n exercise names carrying a translation in the given
// language: filter first, then shuffle, then take. Entries without a usable
// name are skipped, which may leave fewer than n results. Each catalog entry
// contributes at most once per call.
func Suggest(exercises []Exercise, language, n int, rng *rand.Rand) []string {
	if n <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var names []string
	for _, e := range exercises {
		if name, ok := e.Name(language); ok {
			names = append(names, name)
		}
	}
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
