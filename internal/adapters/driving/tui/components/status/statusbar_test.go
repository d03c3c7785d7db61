package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.CartCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		count    int
		contains []string
	}{
		{"ready empty", StateReady, "", 0, []string{"Ready", "approve"}},
		{"ready with cart", StateReady, "", 2, []string{"2 in cart"}},
		{"working", StateWorking, "Processing payment", 0, []string{"Processing payment..."}},
		{"error", StateError, "disk full", 0, []string{"Error: disk full"}},
		{"warning", StateWarning, "cart not saved", 0, []string{"cart not saved"}},
		{"success", StateSuccess, "Order ORD-1 placed", 0, []string{"Order ORD-1 placed"}},
		{"cart hints", StateCart, "", 1, []string{"remove", "pay"}},
		{"input hints", StateEditingIn, "", 0, []string{"esc: back"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetCartCount(tt.count)

			view := bar.View()
			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
		})
	}
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("oops")
	bar.SetCartCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 3, bar.CartCount())
}
