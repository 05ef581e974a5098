package greeter

import (
	"maps"
	"slices"
	"strings"
)

// Phrasebook maps a language code to a greeting format with one %s verb.
type Phrasebook interface {
	Phrase(lang string) (string, bool)
	Languages() []string
}

// Phrases is a Phrasebook backed by a map.
type Phrases map[string]string

// English is the phrasebook bound unless another module overrides it.
var English = Phrases{"en": "Hello, %s!"}

func (p Phrases) Phrase(lang string) (string, bool) {
	phrase, ok := p[strings.ToLower(lang)]
	return phrase, ok
}

// Languages returns the supported language codes, sorted.
func (p Phrases) Languages() []string {
	return slices.Sorted(maps.Keys(p))
}

// Merge returns a phrasebook holding p overlaid with other.
func (p Phrases) Merge(other Phrases) Phrases {
	out := maps.Clone(p)
	if out == nil {
		out = Phrases{}
	}
	maps.Copy(out, other)
	return out
}
