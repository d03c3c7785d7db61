package driven

import (
	"context"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// Compositor renders a source photo into a fixed-size output raster.
type Compositor interface {
	// Compose draws src into a canvas of exactly target pixels using transform t.
	// A nil source is a no-op and returns (nil, nil).
	// Transform ranges are not validated here.
	Compose(
		ctx context.Context,
		src *domain.SourceImage,
		target domain.PixelSize,
		t domain.EditTransform,
	) (*domain.RenderedImage, error)
}

// ImageDecoder turns acquired bytes into a decoded source image.
type ImageDecoder interface {
	// Decode sniffs the format from magic bytes and decodes data.
	// Errors wrap domain.ErrUnsupportedImage, domain.ErrDecodeFailed or domain.ErrImageTooLarge.
	Decode(data []byte, mode domain.CaptureMode) (*domain.SourceImage, error)
}
