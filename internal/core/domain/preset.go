package domain

import "strings"

// SizePreset is a named physical document-photo size and the countries that use it.
type SizePreset struct {
	// ID is the unique identifier for the preset.
	ID string `json:"id"`

	// Label encodes both dimensions and the unit, e.g. "35 x 45 mm" or "2 x 2 in".
	Label string `json:"label"`

	// Description is a human-readable summary.
	Description string `json:"description"`

	// Countries lists display names of countries eligible for this size, in order.
	Countries []string `json:"countries"`
}

// Clone returns a copy that shares no slices with the receiver.
func (p SizePreset) Clone() SizePreset {
	p.Countries = append([]string(nil), p.Countries...)
	return p
}

// PixelSize is a raster size in pixels.
type PixelSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ReferenceDPI is the print resolution used to convert physical sizes to pixels.
const ReferenceDPI = 300

// FallbackPixelSize is returned for unknown or malformed presets.
var FallbackPixelSize = PixelSize{Width: 600, Height: 800}

// FallbackAspectRatio is returned for unknown or malformed presets.
const FallbackAspectRatio = 3.0 / 4.0

// DefaultSizePresets returns the built-in preset table in catalog order.
// Catalog order matters: when two presets list the same country the earlier one keeps it.
func DefaultSizePresets() []SizePreset {
	return []SizePreset{
		{
			ID:          "us-2x2",
			Label:       "2 x 2 in",
			Description: "US passport and visa, white background",
			Countries:   []string{"United States", "Ecuador", "Saudi Arabia"},
		},
		{
			ID:          "schengen-35x45",
			Label:       "35 x 45 mm",
			Description: "Schengen area passports and visas",
			Countries: []string{
				"Austria", "Belgium", "Czech Republic", "Denmark", "Estonia", "Finland",
				"France", "Germany", "Greece", "Hungary", "Iceland", "Italy", "Latvia",
				"Lithuania", "Luxembourg", "Malta", "Netherlands", "Norway", "Poland",
				"Portugal", "Slovakia", "Slovenia", "España", "Spain", "Sweden", "Switzerland",
			},
		},
		{
			ID:          "uk-35x45",
			Label:       "35 x 45 mm",
			Description: "UK and Commonwealth passports, light grey background",
			Countries: []string{
				"United Kingdom", "Ireland", "Australia", "New Zealand", "South Africa",
				"Nigeria", "Pakistan", "Russia", "Côte d'Ivoire", "France",
			},
		},
		{
			ID:          "canada-50x70",
			Label:       "50 x 70 mm",
			Description: "Canadian passport, head 31-36 mm",
			Countries:   []string{"Canada", "Brazil"},
		},
		{
			ID:          "japan-45x45",
			Label:       "45 x 45 mm",
			Description: "Japan visa, white background",
			Countries:   []string{"Japan"},
		},
		{
			ID:          "china-33x48",
			Label:       "33 x 48 mm",
			Description: "Chinese passport and visa",
			Countries:   []string{"China"},
		},
		{
			ID:          "india-51x51",
			Label:       "51 x 51 mm",
			Description: "Indian passport and visa",
			Countries:   []string{"India", "Israel"},
		},
		{
			ID:          "malaysia-35x50",
			Label:       "35 x 50 mm",
			Description: "Malaysian passport",
			Countries:   []string{"Malaysia"},
		},
		{
			ID:          "vietnam-40x60",
			Label:       "40 x 60 mm",
			Description: "Vietnam and Egypt visas",
			Countries:   []string{"Vietnam", "Viet Nam", "Egypt"},
		},
		{
			ID:          "hongkong-40x50",
			Label:       "40 x 50 mm",
			Description: "Hong Kong identity documents",
			Countries:   []string{"Hong Kong"},
		},
		{
			ID:          "turkey-50x60",
			Label:       "50 x 60 mm",
			Description: "Turkish passport",
			Countries:   []string{"Türkiye", "Turkey"},
		},
		{
			ID:          "us-visa-2x2",
			Label:       "2 x 2 in",
			Description: "US visa applications (DS-160)",
			Countries:   []string{"United States", "Philippines"},
		},
	}
}

// DefaultCountryAliases maps normalized alias strings to preset ids.
// Aliases are applied after the catalog scan and may override it.
func DefaultCountryAliases() map[string]string {
	return map[string]string{
		"usa":                      "us-2x2",
		"us":                       "us-2x2",
		"america":                  "us-2x2",
		"united states of america": "us-2x2",
		"uk":                       "uk-35x45",
		"britain":                  "uk-35x45",
		"great britain":            "uk-35x45",
		"england":                  "uk-35x45",
		"scotland":                 "uk-35x45",
		"wales":                    "uk-35x45",
		"schengen":                 "schengen-35x45",
		"europe":                   "schengen-35x45",
		"eu":                       "schengen-35x45",
		"holland":                  "schengen-35x45",
		"deutschland":              "schengen-35x45",
		"prc":                      "china-33x48",
		"hk":                       "hongkong-40x50",
	}
}

// SlugifyLabel lowercases s and collapses every run of non-alphanumeric
// characters into a single '-'.
func SlugifyLabel(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
