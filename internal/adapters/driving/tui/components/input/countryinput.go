// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
)

// CountryInput wraps a bubbles textinput for the free-text country query.
type CountryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewCountryInput creates an unfocused country input.
func NewCountryInput(s *styles.Styles) *CountryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Type a country, e.g. Germany"
	ti.CharLimit = 64
	ti.Width = 32

	return &CountryInput{
		textinput: ti,
		styles:    s,
		width:     32,
	}
}

// Init initialises the input.
func (c *CountryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. It reports whether the value changed.
func (c *CountryInput) Update(msg tea.Msg) (*CountryInput, tea.Cmd, bool) {
	before := c.textinput.Value()
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd, c.textinput.Value() != before
}

// View renders the input.
func (c *CountryInput) View() string {
	label := c.styles.Label.Render("Country")
	input := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (c *CountryInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *CountryInput) SetValue(value string) {
	c.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (c *CountryInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *CountryInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *CountryInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *CountryInput) SetWidth(width int) {
	c.width = width
	inputWidth := width - 20
	if inputWidth < 16 {
		inputWidth = 16
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *CountryInput) Width() int {
	return c.width
}
