package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/webp"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.ImageDecoder = (*Decoder)(nil)

// Supported input MIME types.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"
)

// DefaultMaxSourcePixels bounds source width and height when none is configured.
const DefaultMaxSourcePixels = 8000

// magicBytes identifies allowed image types by their leading bytes.
var magicBytes = map[string][]byte{
	MIMEJPEG: {0xFF, 0xD8, 0xFF},
	MIMEPNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	MIMEWebP: {0x52, 0x49, 0x46, 0x46}, // RIFF....WEBP
}

// DetectType detects the image type from magic bytes.
func DetectType(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, magicBytes[MIMEJPEG]):
		return MIMEJPEG, nil
	case bytes.HasPrefix(data, magicBytes[MIMEPNG]):
		return MIMEPNG, nil
	case len(data) >= 12 && bytes.HasPrefix(data, magicBytes[MIMEWebP]) && string(data[8:12]) == "WEBP":
		return MIMEWebP, nil
	default:
		return "", fmt.Errorf("%w: unrecognised file signature", domain.ErrUnsupportedImage)
	}
}

// Decoder turns acquired bytes into source images.
type Decoder struct {
	maxPixels int
}

// NewDecoder creates a decoder rejecting images wider or taller than maxPixels.
// Non-positive values use DefaultMaxSourcePixels.
func NewDecoder(maxPixels int) *Decoder {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxSourcePixels
	}
	return &Decoder{maxPixels: maxPixels}
}

// Decode sniffs, bounds-checks and decodes data.
// The header is inspected before the full decode so oversized images are
// rejected without allocating their pixels.
func (d *Decoder) Decode(data []byte, mode domain.CaptureMode) (*domain.SourceImage, error) {
	mimeType, err := DetectType(data)
	if err != nil {
		return nil, err
	}

	cfg, err := decodeConfig(bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s header: %w", domain.ErrDecodeFailed, mimeType, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", domain.ErrDecodeFailed, mimeType)
	}
	if cfg.Width > d.maxPixels || cfg.Height > d.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d (max %dx%d)",
			domain.ErrImageTooLarge, cfg.Width, cfg.Height, d.maxPixels, d.maxPixels)
	}

	img, err := decodeImage(bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDecodeFailed, mimeType, err)
	}

	return &domain.SourceImage{Image: img, Mode: mode, MIMEType: mimeType}, nil
}

// DecodeFile reads and decodes the image at path.
func (d *Decoder) DecodeFile(path string, mode domain.CaptureMode) (*domain.SourceImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAcquisition, err)
	}
	return d.Decode(data, mode)
}

func decodeConfig(r io.Reader, mimeType string) (image.Config, error) {
	switch mimeType {
	case MIMEJPEG:
		return jpeg.DecodeConfig(r)
	case MIMEPNG:
		return png.DecodeConfig(r)
	case MIMEWebP:
		return webp.DecodeConfig(r)
	default:
		return image.Config{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mimeType)
	}
}

func decodeImage(r io.Reader, mimeType string) (image.Image, error) {
	switch mimeType {
	case MIMEJPEG:
		return jpeg.Decode(r)
	case MIMEPNG:
		return png.Decode(r)
	case MIMEWebP:
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mimeType)
	}
}
