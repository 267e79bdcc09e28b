package wger

import "strings"

// ExerciseList is the paginated payload of the exercise catalog endpoint.
type ExerciseList struct {
	Count   int        `json:"count"`
	Results []Exercise `json:"results"`
}

// Exercise is one catalog entry. Names live on per-language translations;
// an entry may lack a translation for any given language.
type Exercise struct {
	ID           int64         `json:"id"`
	Translations []Translation `json:"translations"`
}

// Translation carries the exercise name for one language id.
type Translation struct {
	Language int    `json:"language"`
	Name     string `json:"name"`
}

// Name returns the exercise name in the given language, if one is present.
func (e Exercise) Name(language int) (string, bool) {
	for _, tr := range e.Translations {
		if tr.Language != language {
			continue
		}
		if name := strings.TrimSpace(tr.Name); name != "" {
			return name, true
		}
	}
	return "", false
}
