package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/messages"
)

// Notifier turns session change callbacks, which fire on timer goroutines,
// into Bubbletea messages. Bursts collapse into one pending signal.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier. Pass its Notify method as the session's
// change callback.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify records a change. It never blocks.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Wait returns a command that delivers SessionChanged after the next
// Notify, or nil once ctx is done.
func (n *Notifier) Wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-n.ch:
			return messages.SessionChanged{}
		case <-ctx.Done():
			return nil
		}
	}
}
