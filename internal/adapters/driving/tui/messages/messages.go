// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewEditor is the photo editor.
	ViewEditor ViewType = iota
	// ViewCart lists the cart and pays for it.
	ViewCart
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewCart:
		return "cart"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SessionChanged is sent when a timed task changed the session,
// e.g. the compliance analysis finished.
type SessionChanged struct{}

// Approved carries the outcome of composing and adding a photo to the cart.
type Approved struct {
	Item domain.CartItem
	Save domain.SaveResult
	Err  error
}

// CartChanged is sent after the cart was modified from the cart view.
type CartChanged struct {
	Save domain.SaveResult
}

// CheckoutCompleted carries the order created by a finished payment.
type CheckoutCompleted struct {
	Order *domain.Order
	Save  domain.SaveResult
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
