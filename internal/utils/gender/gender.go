// Package gender normalizes free-text gender input to the two canonical
// values stored in profiles.
package gender

import "strings"

const (
	Male   = "male"
	Female = "female"
)

var synonyms = map[string]string{
	"male":    Male,
	"m":       Male,
	"man":     Male,
	"мужской": Male,
	"мужчина": Male,
	"парень":  Male,

	"female":  Female,
	"f":       Female,
	"woman":   Female,
	"женский": Female,
	"женщина": Female,
	"девушка": Female,
}

// Normalize maps a free-text gender to its canonical value.
// Matching is case- and surrounding-whitespace-insensitive.
func Normalize(s string) (string, bool) {
	g, ok := synonyms[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}
