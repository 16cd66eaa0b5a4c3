package atlas

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and drops combining marks, so that
// "Andalucía" and "Andalucia" normalize to the same key.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases, trims, and strips diacritics from a display name
// so typed answers match regardless of accents and casing.
func NormalizeName(name string) string {
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Match resolves a typed name to a location, checking English names, Spanish
// names, and aliases with accent-insensitive comparison.
func (l *Loader) Match(name string) (Location, bool) {
	key := NormalizeName(name)
	if key == "" {
		return Location{}, false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.nameIndex[key]
	if !ok {
		return Location{}, false
	}
	loc, ok := l.byID[id]
	return loc, ok
}
