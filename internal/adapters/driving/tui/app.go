package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/views/cart"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/views/editor"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// notifier delivers session changes made by timers.
	notifier *Notifier

	editorView *editor.View
	cartView   *cart.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where help returns to.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		notifier:    NewNotifier(),
		editorView:  editor.NewView(s, km, ports.Session, ports.Presets, ports.Services, ports.Cart),
		cartView:    cart.NewView(s, km, ports.Cart, ports.Session),
		currentView: messages.ViewEditor,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.editorView.WithContext(ctx)
	a.cartView.WithContext(ctx)
	return a
}

// WithNotifier replaces the notifier. Use the one whose Notify was passed
// to the session as its change callback.
func (a *App) WithNotifier(n *Notifier) *App {
	if n != nil {
		a.notifier = n
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("quickpass"),
		a.editorView.Init(),
		a.notifier.Wait(a.ctx),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
		case messages.ViewCart:
			a.cartView, cmd = a.cartView.Update(msg)
		case messages.ViewHelp:
			cmd = a.handleHelpKey(msg)
		}
		return a, cmd

	case messages.ViewChanged:
		if msg.View == messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewEditor:
			return a, a.editorView.Init()
		case messages.ViewCart:
			return a, a.cartView.Init()
		case messages.ViewHelp:
		}
		return a, nil

	case messages.SessionChanged:
		a.editorView, _ = a.editorView.Update(msg)
		a.cartView, _ = a.cartView.Update(msg)
		return a, a.notifier.Wait(a.ctx)

	case messages.Approved:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.CartChanged:
		a.editorView, cmd = a.editorView.Update(messages.SessionChanged{})
		return a, cmd

	case messages.CheckoutCompleted:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.cartView, _ = a.cartView.Update(msg)
		a.editorView, cmd = a.editorView.Update(messages.SessionChanged{})
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
		case messages.ViewCart:
			a.cartView, cmd = a.cartView.Update(msg)
		case messages.ViewHelp:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink) to the active view.
	switch a.currentView {
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewCart:
		a.cartView, cmd = a.cartView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	switch {
	case keymap.Matches(k, a.keymap.Back), keymap.Matches(k, a.keymap.Help):
		back := a.previousView
		return func() tea.Msg { return messages.ViewChanged{View: back} }
	case keymap.Matches(k, a.keymap.Quit):
		return tea.Quit
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewCart:
		return a.cartView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.editorView.View()
	}
}

// viewHelp renders every keybinding group.
func (a *App) viewHelp() string {
	titles := []string{"Adjust", "Photo", "Cart", "General"}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")
	for i, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		if i < len(titles) {
			b.WriteString(a.styles.Subtitle.Render(titles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			b.WriteString(helpLine(a.styles, binding))
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

func helpLine(s *styles.Styles, b key.Binding) string {
	h := b.Help()
	return "  " + s.Label.Render(h.Key) + s.Normal.Render(h.Desc) + "\n"
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.editorView.SetDimensions(width, height)
	a.cartView.SetDimensions(width, height)
}

// Editor returns the editor view.
func (a *App) Editor() *editor.View {
	return a.editorView
}

// Cart returns the cart view.
func (a *App) Cart() *cart.View {
	return a.cartView
}
