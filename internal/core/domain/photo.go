package domain

import "image"

// EditTransform holds the user-adjustable geometry applied when composing a photo.
// Range checks are the caller's job; the compositor renders whatever it is given.
type EditTransform struct {
	// Zoom multiplies the cover-fit scale.
	Zoom float64 `json:"zoom" validate:"gte=1,lte=2"`

	// RotateDegrees rotates the source around its centre, clockwise on screen.
	RotateDegrees float64 `json:"rotate" validate:"gte=-45,lte=45"`

	// BrightnessPercent scales source channel values; 100 leaves them unchanged.
	BrightnessPercent float64 `json:"brightness" validate:"gte=50,lte=150"`

	// OffsetX shifts the source horizontally in output pixels.
	OffsetX float64 `json:"offset_x" validate:"gte=-200,lte=200"`

	// OffsetY shifts the source vertically in output pixels.
	OffsetY float64 `json:"offset_y" validate:"gte=-200,lte=200"`
}

// DefaultEditTransform is the state every edit session starts from.
func DefaultEditTransform() EditTransform {
	return EditTransform{Zoom: 1, RotateDegrees: 0, BrightnessPercent: 100}
}

// CaptureMode tags how a source image was acquired.
type CaptureMode string

// Capture modes.
const (
	CaptureCamera CaptureMode = "camera"
	CaptureUpload CaptureMode = "upload"
	CaptureInbox  CaptureMode = "inbox"
)

// IsValid returns true if the capture mode is recognised.
func (m CaptureMode) IsValid() bool {
	switch m {
	case CaptureCamera, CaptureUpload, CaptureInbox:
		return true
	default:
		return false
	}
}

// SourceImage is a decoded photo handed over by the acquisition collaborator.
type SourceImage struct {
	// Image is the decoded raster; its bounds may be any size.
	Image image.Image

	// Mode records how the image was captured.
	Mode CaptureMode

	// MIMEType is the detected input encoding, e.g. "image/jpeg".
	MIMEType string
}

// Size returns the source pixel size, or the zero size for a nil image.
func (s *SourceImage) Size() PixelSize {
	if s == nil || s.Image == nil {
		return PixelSize{}
	}
	b := s.Image.Bounds()
	return PixelSize{Width: b.Dx(), Height: b.Dy()}
}

// RenderedImage is an encoded, fixed-size output raster.
type RenderedImage struct {
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Data     []byte `json:"data,omitempty"`
}

// Clone returns a deep copy. A nil receiver yields nil.
func (r *RenderedImage) Clone() *RenderedImage {
	if r == nil {
		return nil
	}
	c := *r
	c.Data = append([]byte(nil), r.Data...)
	return &c
}
