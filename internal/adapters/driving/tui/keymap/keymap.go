// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the editor or leaves the country input.
	Back key.Binding

	// Up and Down move through lists.
	Up   key.Binding
	Down key.Binding

	// Pan moves the photo inside the frame.
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding

	ZoomIn      key.Binding
	ZoomOut     key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Brighter    key.Binding
	Darker      key.Binding

	// Reset restores the default transform and restarts the analysis.
	Reset key.Binding

	// Country focuses the country input.
	Country key.Binding

	// NextPreset and PrevPreset cycle the size preset manually.
	NextPreset key.Binding
	PrevPreset key.Binding

	// NextService cycles the purchasable service.
	NextService key.Binding

	// Approve composes the photo and adds it to the cart.
	Approve key.Binding

	// Cart opens the cart view.
	Cart key.Binding

	// Remove deletes the selected cart item.
	Remove key.Binding

	// Checkout pays for the cart.
	Checkout key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PanUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑↓←→", "move"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("down"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "zoom"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[/]", "rotate"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("]"),
		),
		Brighter: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp("</>", "brightness"),
		),
		Darker: key.NewBinding(
			key.WithKeys(","),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Country: key.NewBinding(
			key.WithKeys("/", "c"),
			key.WithHelp("/", "country"),
		),
		NextPreset: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "size"),
		),
		PrevPreset: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		NextService: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "service"),
		),
		Approve: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "approve"),
		),
		Cart: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "cart"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		Checkout: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pay"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// EditorHelp returns keybindings for the editor view.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Country, k.NextPreset, k.Approve, k.Cart, k.Help}
}

// CartHelp returns keybindings for the cart view.
func (k *KeyMap) CartHelp() []key.Binding {
	return []key.Binding{k.Up, k.Remove, k.Checkout, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PanUp, k.ZoomIn, k.RotateLeft, k.Brighter, k.Reset},
		{k.Country, k.NextPreset, k.NextService, k.Approve},
		{k.Cart, k.Remove, k.Checkout},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
