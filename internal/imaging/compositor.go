package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
)

// Ensure Compositor implements the interface.
var _ driven.Compositor = (*Compositor)(nil)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 90

// Compositor renders source photos into pixel-exact JPEG canvases.
type Compositor struct {
	quality int
}

// NewCompositor creates a compositor encoding at the given JPEG quality.
// Values outside 1..100 use DefaultJPEGQuality.
func NewCompositor(quality int) *Compositor {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Compositor{quality: quality}
}

// Quality returns the JPEG quality used for output.
func (c *Compositor) Quality() int {
	return c.quality
}

// Compose draws src onto a white canvas of exactly target pixels.
//
// The source is scaled to cover the canvas, multiplied by the zoom, rotated
// about its centre and shifted by the offsets. Brightness scales the source
// channels only; the white background is never brightened or darkened.
// A nil source returns (nil, nil).
func (c *Compositor) Compose(
	ctx context.Context,
	src *domain.SourceImage,
	target domain.PixelSize,
	t domain.EditTransform,
) (*domain.RenderedImage, error) {
	if src == nil || src.Image == nil {
		return nil, nil
	}
	if target.Width <= 0 || target.Height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", domain.ErrInvalidInput, target.Width, target.Height)
	}
	bounds := src.Image.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: source image has no pixels", domain.ErrInvalidInput)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := src.Image
	if t.BrightnessPercent != 100 {
		source = adjustBrightness(source, t.BrightnessPercent/100)
	}

	s2d := SourceToCanvas(bounds, target, t)
	draw.CatmullRom.Transform(canvas, s2d, source, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return &domain.RenderedImage{
		MIMEType: "image/jpeg",
		Width:    target.Width,
		Height:   target.Height,
		Data:     buf.Bytes(),
	}, nil
}

// CoverScale is the smallest uniform scale at which a source of size src
// fully covers target.
func CoverScale(src image.Rectangle, target domain.PixelSize) float64 {
	return math.Max(
		float64(target.Width)/float64(src.Dx()),
		float64(target.Height)/float64(src.Dy()),
	)
}

// SourceToCanvas builds the affine map from source pixel coordinates to
// canvas coordinates: translate to the canvas centre plus offset, rotate,
// scale, then recentre the source on its own midpoint.
func SourceToCanvas(src image.Rectangle, target domain.PixelSize, t domain.EditTransform) f64.Aff3 {
	scale := CoverScale(src, target) * t.Zoom
	theta := t.RotateDegrees * math.Pi / 180
	sin, cos := math.Sincos(theta)

	a, b := scale*cos, -scale*sin
	d, e := scale*sin, scale*cos

	cx := float64(src.Min.X) + float64(src.Dx())/2
	cy := float64(src.Min.Y) + float64(src.Dy())/2
	tx := float64(target.Width)/2 + t.OffsetX
	ty := float64(target.Height)/2 + t.OffsetY

	return f64.Aff3{
		a, b, tx - (a*cx + b*cy),
		d, e, ty - (d*cx + e*cy),
	}
}

// adjustBrightness returns a copy of img with colour channels multiplied by
// factor and clamped. Alpha is preserved.
func adjustBrightness(img image.Image, factor float64) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = scaleChannel(row[i], factor)
			row[i+1] = scaleChannel(row[i+1], factor)
			row[i+2] = scaleChannel(row[i+2], factor)
		}
	}
	return out
}

func scaleChannel(v uint8, factor float64) uint8 {
	f := math.Round(float64(v) * factor)
	switch {
	case f < 0 || math.IsNaN(f):
		return 0
	case f > 255:
		return 255
	default:
		return uint8(f)
	}
}
