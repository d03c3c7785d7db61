package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// Ensure CountryResolver implements the interface.
var _ driving.CountryResolver = (*CountryResolver)(nil)

// CountryResolver maps normalized country names to preset ids.
// The lookup table is built once and never mutated.
type CountryResolver struct {
	lookup map[string]string
}

// NewCountryResolver scans the catalog's country lists in order (first writer
// wins) and then layers aliases on top, which may override scanned entries.
// Alias keys are normalized; aliases pointing at unknown presets are dropped.
func NewCountryResolver(catalog driving.PresetCatalog, aliases map[string]string) *CountryResolver {
	lookup := make(map[string]string)

	for _, p := range catalog.Presets() {
		for _, country := range p.Countries {
			key := Normalize(country)
			if key == "" {
				continue
			}
			if _, taken := lookup[key]; taken {
				continue
			}
			lookup[key] = p.ID
		}
	}

	for alias, presetID := range aliases {
		key := Normalize(alias)
		if key == "" {
			continue
		}
		if _, ok := catalog.Preset(presetID); !ok {
			logger.Warn("country alias %q points at unknown preset %q, ignoring", alias, presetID)
			continue
		}
		lookup[key] = presetID
	}

	return &CountryResolver{lookup: lookup}
}

// Resolve returns the preset id for text using an exact match on the normalized form.
func (r *CountryResolver) Resolve(text string) (string, bool) {
	key := Normalize(text)
	if key == "" {
		return "", false
	}
	id, ok := r.lookup[key]
	return id, ok
}

// Len returns the number of resolvable names.
func (r *CountryResolver) Len() int {
	return len(r.lookup)
}

// Normalize lowercases s, strips diacritics, collapses every run of
// non-alphanumeric characters to a single space and trims the result.
func Normalize(s string) string {
	lower := strings.ToLower(s)

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, lower)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
