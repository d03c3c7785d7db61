// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateWorking   State = "working"
	StateError     State = "error"
	StateWarning   State = "warning"
	StateSuccess   State = "success"
	StateHelp      State = "help"
	StateCart      State = "cart"
	StateEditingIn State = "input"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	cartCount int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateWorking:
		if s.message != "" {
			return s.styles.Muted.Render(s.message + "...")
		}
		return s.styles.Muted.Render("Working...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateWarning:
		return s.styles.Warning.Render(s.message)
	case StateSuccess:
		return s.styles.Success.Render(s.message)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady, StateCart, StateEditingIn:
	}
	if s.cartCount > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("%d in cart", s.cartCount))
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints for the current state.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	switch s.state {
	case StateCart:
		bindings = s.keymap.CartHelp()
	case StateEditingIn:
		bindings = []key.Binding{s.keymap.Back}
	case StateHelp:
		bindings = s.keymap.ShortHelp()
	default:
		bindings = s.keymap.EditorHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCartCount sets the number of items shown when idle.
func (s *Bar) SetCartCount(count int) {
	s.cartCount = count
}

// CartCount returns the displayed cart count.
func (s *Bar) CartCount() int {
	return s.cartCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state, keeping the cart count.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
