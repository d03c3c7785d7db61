package driving

import (
	"context"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// ImportRequest describes one non-interactive photo approval.
type ImportRequest struct {
	// Data is the raw image file.
	Data []byte

	// Mode records how the bytes were acquired.
	Mode domain.CaptureMode

	// ServiceID selects the product. Required.
	ServiceID string

	// Country, if set, is resolved to a preset as if typed by the user.
	Country string

	// PresetID, if set, is a manual preset choice applied after Country.
	PresetID string

	// Transform, if set, replaces the default edit transform.
	Transform *domain.EditTransform
}

// ImportResult is the outcome of a successful import.
type ImportResult struct {
	Item       domain.CartItem
	Save       domain.SaveResult
	Resolution domain.CountryResolution
}

// PhotoImporter runs a whole edit session for one photo without user interaction.
type PhotoImporter interface {
	// Import decodes the photo, applies the request and approves it into the cart.
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)

	// Render decodes and composes the photo without adding it to the cart.
	Render(ctx context.Context, req RenderRequest) (RenderResult, error)
}

// RenderRequest describes a one-off render that never touches the cart.
type RenderRequest struct {
	Data []byte

	// ServiceID, if set, supplies the starting preset.
	ServiceID string

	// Country and PresetID follow the same precedence as ImportRequest.
	Country  string
	PresetID string

	Transform *domain.EditTransform
}

// RenderResult is the composed photo and the preset it was sized for.
type RenderResult struct {
	Image      *domain.RenderedImage
	PresetID   string
	Resolution domain.CountryResolution
}
