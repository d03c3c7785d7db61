package driving

import (
	"context"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// OrderCartService owns the cart and the order history.
// It is the only writer of either collection.
type OrderCartService interface {
	// Load restores persisted cart and orders. Unreadable records load as empty.
	Load(ctx context.Context) error

	// AddToCart appends a new immutable item. It never fails; the
	// SaveResult reports whether the mutation was persisted.
	AddToCart(ctx context.Context, item domain.NewCartItem) (domain.CartItem, domain.SaveResult)

	// RemoveFromCart removes the item at index. Invalid indexes are a no-op.
	RemoveFromCart(ctx context.Context, index int) (bool, domain.SaveResult)

	// CartTotal returns the exact sum of cart prices.
	CartTotal() domain.Money

	// Cart returns a copy of the cart items in order.
	Cart() []domain.CartItem

	// Checkout converts the cart into an order and clears the cart in one step.
	// Returns domain.ErrEmptyCart when there is nothing to buy.
	Checkout(ctx context.Context) (*domain.Order, domain.SaveResult, error)

	// Orders returns copies of all orders, most recent first.
	Orders() []domain.Order

	// Order returns a copy of the order with the given id, or domain.ErrNotFound.
	Order(id string) (*domain.Order, error)

	// LastSave returns the outcome of the most recent persistence step.
	// After a checkout it is the worse of the orders and cart writes.
	LastSave() domain.SaveResult
}

// AccountService holds the signed-in user record.
type AccountService interface {
	// Load restores the persisted user record. Unreadable records load as signed out.
	Load(ctx context.Context) error

	// Login validates and stores the user record.
	Login(ctx context.Context, user domain.User) (domain.SaveResult, error)

	// Logout clears the user record.
	Logout(ctx context.Context) domain.SaveResult

	// Current returns the signed-in user, or nil.
	Current() *domain.User
}
