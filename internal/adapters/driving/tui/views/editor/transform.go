package editor

import (
	"math"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// Step sizes for one key press.
const (
	zoomStep       = 0.05
	rotateStep     = 1.0
	brightnessStep = 5.0
	panStep        = 10.0
)

// Transform bounds accepted by the session.
const (
	minZoom, maxZoom             = 1.0, 2.0
	minRotate, maxRotate         = -45.0, 45.0
	minBrightness, maxBrightness = 50.0, 150.0
	maxOffset                    = 200.0
)

// nudge describes one transform adjustment.
type nudge struct {
	zoom, rotate, brightness, dx, dy float64
}

// apply returns t adjusted by n and clamped to the accepted ranges.
func (n nudge) apply(t domain.EditTransform) domain.EditTransform {
	t.Zoom = clamp(round2(t.Zoom+n.zoom), minZoom, maxZoom)
	t.RotateDegrees = clamp(t.RotateDegrees+n.rotate, minRotate, maxRotate)
	t.BrightnessPercent = clamp(t.BrightnessPercent+n.brightness, minBrightness, maxBrightness)
	t.OffsetX = clamp(t.OffsetX+n.dx, -maxOffset, maxOffset)
	t.OffsetY = clamp(t.OffsetY+n.dy, -maxOffset, maxOffset)
	return t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round2 keeps repeated zoom steps from drifting past the bounds.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
