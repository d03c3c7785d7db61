// Package cart provides the cart and checkout view for the TUI.
package cart

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// View lists the cart, removes items and runs the checkout.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.CartList
	statusbar *status.Bar

	cart    driving.OrderCartService
	session driving.SessionController
	ctx     context.Context

	lastOrder *domain.Order
	width     int
	height    int
	ready     bool
}

// NewView creates a new cart view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	cart driving.OrderCartService,
	session driving.SessionController,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateCart)

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewCartList(s),
		statusbar: bar,
		cart:      cart,
		session:   session,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init reloads the cart contents.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	if v.checkoutPending() {
		v.statusbar.SetState(status.StateWorking)
		v.statusbar.SetMessage("Processing payment")
	} else {
		v.statusbar.SetState(status.StateCart)
		v.statusbar.SetMessage("")
	}
	return nil
}

// Refresh copies the current cart into the list.
func (v *View) Refresh() {
	if v.cart == nil {
		return
	}
	v.list.SetItems(v.cart.Cart())
	v.statusbar.SetCartCount(v.list.Count())
}

// Update handles messages for the cart view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKeyMsg(msg)

	case messages.CheckoutCompleted:
		v.handleCheckoutCompleted(msg)
		return v, nil

	case messages.SessionChanged:
		v.Refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewEditor} }
	case keymap.Matches(k, v.keymap.Quit):
		return func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(k, v.keymap.Help):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	case keymap.Matches(k, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(k, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(k, v.keymap.Remove):
		return v.remove()
	case keymap.Matches(k, v.keymap.Checkout):
		return v.checkout()
	}
	return nil
}

// remove deletes the selected item. The cart is frozen while a payment runs.
func (v *View) remove() tea.Cmd {
	if v.cart == nil || v.list.IsEmpty() {
		return nil
	}
	if v.checkoutPending() {
		v.statusbar.SetState(status.StateWarning)
		v.statusbar.SetMessage("Payment in progress")
		return nil
	}

	removed, save := v.cart.RemoveFromCart(v.ctx, v.list.Selected())
	v.Refresh()
	if !removed {
		return nil
	}
	if save.OK() {
		v.statusbar.SetState(status.StateCart)
		v.statusbar.SetMessage("")
	} else {
		v.statusbar.SetState(status.StateWarning)
		v.statusbar.SetMessage("Item removed, but the cart could not be saved")
	}
	return func() tea.Msg { return messages.CartChanged{Save: save} }
}

// checkout starts the payment and returns a command that waits for it.
func (v *View) checkout() tea.Cmd {
	if v.session == nil {
		return nil
	}

	done := make(chan messages.CheckoutCompleted, 1)
	err := v.session.StartCheckout(v.ctx, func(order *domain.Order, save domain.SaveResult, err error) {
		done <- messages.CheckoutCompleted{Order: order, Save: save, Err: err}
	})
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		v.statusbar.SetState(status.StateWarning)
		v.statusbar.SetMessage("Your cart is empty")
		return nil
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return nil
	case err != nil:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return nil
	}

	v.statusbar.SetState(status.StateWorking)
	v.statusbar.SetMessage("Processing payment")
	return func() tea.Msg {
		return <-done
	}
}

func (v *View) handleCheckoutCompleted(msg messages.CheckoutCompleted) {
	v.Refresh()
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.lastOrder = msg.Order
	if msg.Order == nil {
		return
	}
	if !msg.Save.OK() {
		v.statusbar.SetState(status.StateWarning)
		v.statusbar.SetMessage(fmt.Sprintf("Order %s placed, but it could not be saved (%s)", msg.Order.ID, msg.Save.Status))
		return
	}
	v.statusbar.SetState(status.StateSuccess)
	v.statusbar.SetMessage(fmt.Sprintf("Order %s placed, total $%s", msg.Order.ID, msg.Order.Total))
}

func (v *View) checkoutPending() bool {
	return v.session != nil && v.session.Snapshot().CheckoutPending
}

// View renders the cart view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("QuickPass Cart"), "", v.list.View())

	if v.lastOrder != nil && v.list.IsEmpty() {
		sections = append(sections, "",
			v.styles.Success.Render(fmt.Sprintf("Thank you! Order %s (%s)", v.lastOrder.ID, v.lastOrder.Summary)))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// List returns the cart list component.
func (v *View) List() *list.CartList {
	return v.list
}

// StatusBar returns the view's status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

// LastOrder returns the order placed from this view, if any.
func (v *View) LastOrder() *domain.Order {
	return v.lastOrder
}
