// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// CartList displays cart items in a navigable list with a running total.
type CartList struct {
	items    []domain.CartItem
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCartList creates a new cart list component.
func NewCartList(s *styles.Styles) *CartList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CartList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the cart list.
func (r *CartList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *CartList) Update(msg tea.Msg) (*CartList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the cart list.
func (r *CartList) View() string {
	if len(r.items) == 0 {
		return r.styles.Muted.Render("Your cart is empty")
	}

	lines := make([]string, 0, len(r.items)+4)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Cart (%d)", len(r.items))), "")

	// Each item takes two lines.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.items) {
		end = len(r.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, &r.items[i]))
	}

	lines = append(lines, "", r.styles.Normal.Render("Total  ")+r.styles.Price.Render("$"+r.Total().String()))
	return strings.Join(lines, "\n")
}

func (r *CartList) renderItem(index int, item *domain.CartItem) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := item.Name
	maxNameLen := r.width - 16
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	price := "$" + item.Price.String()

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, price))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			r.styles.Price.Render(price)
	}

	detail := item.SizeLabel
	if item.CountryHint != "" {
		detail += " · " + item.CountryHint
	}
	if item.DocumentType != "" {
		detail += " · " + item.DocumentType
	}

	return titleLine + "\n" + r.styles.Muted.Render("    "+detail)
}

// SetItems replaces the items, keeping the selection in range.
func (r *CartList) SetItems(items []domain.CartItem) {
	r.items = items
	if r.selected >= len(items) {
		r.selected = len(items) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Items returns the current items.
func (r *CartList) Items() []domain.CartItem {
	return r.items
}

// Total returns the sum of the displayed item prices.
func (r *CartList) Total() domain.Money {
	return domain.SumPrices(r.items)
}

// Selected returns the index of the selected item.
func (r *CartList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *CartList) SetSelected(index int) {
	if index >= 0 && index < len(r.items) {
		r.selected = index
	}
}

// SelectedItem returns the currently selected item, or nil if none.
func (r *CartList) SelectedItem() *domain.CartItem {
	if len(r.items) == 0 || r.selected < 0 || r.selected >= len(r.items) {
		return nil
	}
	return &r.items[r.selected]
}

// MoveUp moves selection up.
func (r *CartList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *CartList) MoveDown() {
	if r.selected < len(r.items)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *CartList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *CartList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *CartList) Height() int {
	return r.height
}

// Count returns the number of items.
func (r *CartList) Count() int {
	return len(r.items)
}

// IsEmpty returns whether the list is empty.
func (r *CartList) IsEmpty() bool {
	return len(r.items) == 0
}
