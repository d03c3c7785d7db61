package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// Ensure the catalogs implement the interfaces.
var (
	_ driving.PresetCatalog  = (*SizePresetCatalog)(nil)
	_ driving.ServiceCatalog = (*ServiceCatalog)(nil)
)

const mmPerInch = 25.4

// labelPattern matches "<w> x <h> <unit>" with exactly two numeric tokens.
var labelPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(mm|in)\s*$`)

// presetGeometry is the parsed physical size of a preset.
type presetGeometry struct {
	pixels domain.PixelSize
	ratio  float64
}

// SizePresetCatalog is the immutable preset table with precomputed geometry.
type SizePresetCatalog struct {
	presets  []domain.SizePreset
	index    map[string]int
	geometry map[string]presetGeometry
}

// NewSizePresetCatalog builds a catalog from presets in the given order.
// Duplicate or empty ids are rejected. Malformed labels are accepted and
// resolve to the fallback geometry.
func NewSizePresetCatalog(presets []domain.SizePreset) (*SizePresetCatalog, error) {
	c := &SizePresetCatalog{
		presets:  make([]domain.SizePreset, 0, len(presets)),
		index:    make(map[string]int, len(presets)),
		geometry: make(map[string]presetGeometry, len(presets)),
	}

	for _, p := range presets {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: preset with empty id", domain.ErrInvalidInput)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate preset id %q", domain.ErrInvalidInput, p.ID)
		}
		c.index[p.ID] = len(c.presets)
		c.presets = append(c.presets, p.Clone())
		c.geometry[p.ID] = parseGeometry(p.Label)
	}

	return c, nil
}

// DefaultSizePresetCatalog returns the catalog for the built-in preset table.
func DefaultSizePresetCatalog() *SizePresetCatalog {
	c, err := NewSizePresetCatalog(domain.DefaultSizePresets())
	if err != nil {
		panic(fmt.Sprintf("built-in presets are invalid: %v", err))
	}
	return c
}

// parseGeometry converts a label to pixels at the reference DPI.
func parseGeometry(label string) presetGeometry {
	w, h, unit, ok := ParseSizeLabel(label)
	if !ok {
		return presetGeometry{pixels: domain.FallbackPixelSize, ratio: domain.FallbackAspectRatio}
	}

	toPixels := func(v float64) int {
		if unit == "in" {
			return int(math.Round(v * domain.ReferenceDPI))
		}
		return int(math.Round(v / mmPerInch * domain.ReferenceDPI))
	}

	return presetGeometry{
		pixels: domain.PixelSize{Width: toPixels(w), Height: toPixels(h)},
		ratio:  w / h,
	}
}

// ParseSizeLabel extracts the two dimensions and the unit ("mm" or "in") from a label.
func ParseSizeLabel(label string) (width, height float64, unit string, ok bool) {
	m := labelPattern.FindStringSubmatch(strings.ToLower(label))
	if m == nil {
		return 0, 0, "", false
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, "", false
	}
	h, err := strconv.ParseFloat(m[2], 64)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, "", false
	}
	return w, h, m[3], true
}

// Presets returns every preset in catalog order.
func (c *SizePresetCatalog) Presets() []domain.SizePreset {
	out := make([]domain.SizePreset, len(c.presets))
	for i := range c.presets {
		out[i] = c.presets[i].Clone()
	}
	return out
}

// Preset returns the preset with the given id.
func (c *SizePresetCatalog) Preset(id string) (domain.SizePreset, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.SizePreset{}, false
	}
	return c.presets[i].Clone(), true
}

// PixelDimensions returns the output size for a preset.
func (c *SizePresetCatalog) PixelDimensions(id string) domain.PixelSize {
	g, ok := c.geometry[id]
	if !ok {
		return domain.FallbackPixelSize
	}
	return g.pixels
}

// AspectRatio returns width/height for a preset.
func (c *SizePresetCatalog) AspectRatio(id string) float64 {
	g, ok := c.geometry[id]
	if !ok {
		return domain.FallbackAspectRatio
	}
	return g.ratio
}

// ServiceCatalog is the immutable service table.
type ServiceCatalog struct {
	services []domain.Service
	index    map[string]int
}

// NewServiceCatalog builds a service catalog. Every default preset must exist in presets.
func NewServiceCatalog(services []domain.Service, presets driving.PresetCatalog) (*ServiceCatalog, error) {
	c := &ServiceCatalog{
		services: append([]domain.Service(nil), services...),
		index:    make(map[string]int, len(services)),
	}
	for i, s := range c.services {
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate service id %q", domain.ErrInvalidInput, s.ID)
		}
		if presets != nil {
			if _, ok := presets.Preset(s.DefaultPresetID); !ok {
				return nil, fmt.Errorf("%w: service %q references unknown preset %q",
					domain.ErrInvalidInput, s.ID, s.DefaultPresetID)
			}
		}
		c.index[s.ID] = i
	}
	return c, nil
}

// Services returns every service in display order.
func (c *ServiceCatalog) Services() []domain.Service {
	return append([]domain.Service(nil), c.services...)
}

// Service returns the service with the given id.
func (c *ServiceCatalog) Service(id string) (domain.Service, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Service{}, false
	}
	return c.services[i], true
}
