// Package names provides localised display names of the lunar phases.
package names

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/ngrash/go-moon/lunar"
)

// Names holds the display names of the four phases, indexed by lunar.Phase.
type Names struct {
	Tag    language.Tag
	Phases [4]string
	// Calendar is the name of an exported calendar.
	Calendar string
}

// Label returns the display name of p. It panics if p is not a valid phase.
func (n Names) Label(p lunar.Phase) string {
	if !p.Valid() {
		panic(fmt.Errorf("invalid Phase: %d", int(p)))
	}
	return n.Phases[p]
}

var (
	English = Names{
		Tag:      language.English,
		Phases:   [4]string{"New Moon", "First Quarter", "Full Moon", "Last Quarter"},
		Calendar: "Moon phases",
	}
	German = Names{
		Tag:      language.German,
		Phases:   [4]string{"Neumond", "Erstes Viertel", "Vollmond", "Letztes Viertel"},
		Calendar: "Mondphasen",
	}
)

// supported must list English first; it is the fallback of the matcher.
var (
	supported = []Names{English, German}
	matcher   = language.NewMatcher(tags(supported))
)

func tags(ns []Names) []language.Tag {
	t := make([]language.Tag, len(ns))
	for i, n := range ns {
		t[i] = n.Tag
	}
	return t
}

// Lookup returns the names for the supported language closest to tag.
func Lookup(tag language.Tag) Names {
	_, i, _ := matcher.Match(tag)
	return supported[i]
}

// Parse looks up the names for a BCP 47 language tag such as "de-AT".
// An empty string selects English.
func Parse(lang string) (Names, error) {
	if lang == "" {
		return English, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Names{}, fmt.Errorf("parse language %q: %w", lang, err)
	}
	return Lookup(tag), nil
}
