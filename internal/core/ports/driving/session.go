package driving

import (
	"context"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// CheckoutCallback receives the outcome of a delayed checkout. save is the
// worse of the orders and cart writes; err is set only when no order was made.
type CheckoutCallback func(order *domain.Order, save domain.SaveResult, err error)

// SessionController drives one interactive edit session.
type SessionController interface {
	// SelectService chooses the product and applies its default preset.
	SelectService(id string) error

	// BeginCapture enters the capturing phase and discards any previous source.
	BeginCapture(mode domain.CaptureMode)

	// AcquisitionFailed reports a failed capture without touching session state.
	AcquisitionFailed(cause error) error

	// SetSource stores a freshly acquired photo and enters the editor.
	SetSource(src *domain.SourceImage) error

	// EnterEditor resets the transform and restarts the simulated analysis.
	EnterEditor()

	// UpdateTransform replaces the edit transform after range validation.
	UpdateTransform(t domain.EditTransform) error

	// SetCountryQuery stores the query and auto-applies a differing resolved preset.
	SetCountryQuery(text string) domain.CountryResolution

	// SelectPreset records a manual preset choice.
	SelectPreset(id string) error

	// Approve composes the current photo and adds it to the cart.
	Approve(ctx context.Context) (domain.CartItem, domain.SaveResult, error)

	// StartCheckout begins the simulated payment. It cannot be cancelled.
	StartCheckout(ctx context.Context, done CheckoutCallback) error

	// Snapshot returns a copy of the session state.
	Snapshot() domain.AppSession

	// Close stops pending analysis work.
	Close()
}
