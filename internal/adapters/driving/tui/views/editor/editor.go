// Package editor provides the photo editor view for the TUI.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// View is the editor: a framed preview of the crop, the transform
// controls, the country input and the approve action.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	country   *input.CountryInput
	statusbar *status.Bar

	session  driving.SessionController
	presets  driving.PresetCatalog
	services driving.ServiceCatalog
	cart     driving.OrderCartService
	ctx      context.Context

	resolution   domain.CountryResolution
	focusCountry bool
	approving    bool

	// notice overrides the derived status until the next session change.
	notice      string
	noticeState status.State

	width  int
	height int
	ready  bool
}

// NewView creates a new editor view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionController,
	presets driving.PresetCatalog,
	services driving.ServiceCatalog,
	cart driving.OrderCartService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		country:   input.NewCountryInput(s),
		statusbar: status.NewBar(s, km),
		session:   session,
		presets:   presets,
		services:  services,
		cart:      cart,
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

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	if v.session != nil {
		v.country.SetValue(v.session.Snapshot().CountryQuery)
	}
	v.syncStatus()
	return nil
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		cmd := v.handleKeyMsg(msg)
		v.syncStatus()
		return v, cmd

	case messages.Approved:
		v.handleApproved(msg)
		return v, nil

	case messages.SessionChanged:
		v.syncStatus()
		return v, nil

	case messages.ErrorOccurred:
		v.setNotice(status.StateError, msg.Err.Error())
		return v, nil
	}

	if v.focusCountry {
		var cmd tea.Cmd
		v.country, cmd, _ = v.country.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if v.session == nil {
		v.setNotice(status.StateError, ErrNoSession.Error())
		return nil
	}

	if v.focusCountry {
		return v.handleCountryKey(msg)
	}
	v.clearNotice()

	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(k, v.keymap.Help):
		return changeView(messages.ViewHelp)
	case keymap.Matches(k, v.keymap.Cart):
		return changeView(messages.ViewCart)
	case keymap.Matches(k, v.keymap.Country):
		v.focusCountry = true
		return v.country.Focus()
	case keymap.Matches(k, v.keymap.Approve):
		return v.approve()
	case keymap.Matches(k, v.keymap.Reset):
		v.session.EnterEditor()
		return nil
	case keymap.Matches(k, v.keymap.NextPreset):
		v.cyclePreset(1)
		return nil
	case keymap.Matches(k, v.keymap.PrevPreset):
		v.cyclePreset(-1)
		return nil
	case keymap.Matches(k, v.keymap.NextService):
		v.cycleService()
		return nil
	}

	if n, ok := v.nudgeFor(k); ok {
		snap := v.session.Snapshot()
		if err := v.session.UpdateTransform(n.apply(snap.Transform)); err != nil {
			v.setNotice(status.StateError, err.Error())
		}
	}
	return nil
}

func (v *View) handleCountryKey(msg tea.KeyMsg) tea.Cmd {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		v.focusCountry = false
		v.country.Blur()
		return nil
	}

	var cmd tea.Cmd
	var changed bool
	v.country, cmd, changed = v.country.Update(msg)
	if changed {
		v.resolution = v.session.SetCountryQuery(v.country.Value())
	}
	return cmd
}

func (v *View) nudgeFor(k string) (nudge, bool) {
	km := v.keymap
	switch {
	case keymap.Matches(k, km.PanUp):
		return nudge{dy: -panStep}, true
	case keymap.Matches(k, km.PanDown):
		return nudge{dy: panStep}, true
	case keymap.Matches(k, km.PanLeft):
		return nudge{dx: -panStep}, true
	case keymap.Matches(k, km.PanRight):
		return nudge{dx: panStep}, true
	case keymap.Matches(k, km.ZoomIn):
		return nudge{zoom: zoomStep}, true
	case keymap.Matches(k, km.ZoomOut):
		return nudge{zoom: -zoomStep}, true
	case keymap.Matches(k, km.RotateLeft):
		return nudge{rotate: -rotateStep}, true
	case keymap.Matches(k, km.RotateRight):
		return nudge{rotate: rotateStep}, true
	case keymap.Matches(k, km.Brighter):
		return nudge{brightness: brightnessStep}, true
	case keymap.Matches(k, km.Darker):
		return nudge{brightness: -brightnessStep}, true
	}
	return nudge{}, false
}

func (v *View) cyclePreset(dir int) {
	presets := v.presets.Presets()
	if len(presets) == 0 {
		return
	}
	current := v.session.Snapshot().PresetID
	next := 0
	for i, p := range presets {
		if p.ID == current {
			next = (i + dir + len(presets)) % len(presets)
			break
		}
	}
	if err := v.session.SelectPreset(presets[next].ID); err != nil {
		v.setNotice(status.StateError, err.Error())
	}
}

func (v *View) cycleService() {
	services := v.services.Services()
	if len(services) == 0 {
		return
	}
	next := 0
	if svc := v.session.Snapshot().Service; svc != nil {
		for i, s := range services {
			if s.ID == svc.ID {
				next = (i + 1) % len(services)
				break
			}
		}
	}
	if err := v.session.SelectService(services[next].ID); err != nil {
		v.setNotice(status.StateError, err.Error())
	}
}

// approve composes off the update loop; Approved carries the outcome back.
func (v *View) approve() tea.Cmd {
	if v.approving {
		return nil
	}
	v.approving = true
	v.setNotice(status.StateWorking, "Composing photo")

	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		item, save, err := session.Approve(ctx)
		return messages.Approved{Item: item, Save: save, Err: err}
	}
}

func (v *View) handleApproved(msg messages.Approved) {
	v.approving = false
	switch {
	case errors.Is(msg.Err, domain.ErrMissingSource):
		v.setNotice(status.StateError, "capture or upload a photo first")
	case errors.Is(msg.Err, domain.ErrMissingService):
		v.setNotice(status.StateError, "choose a service first (s)")
	case msg.Err != nil:
		v.setNotice(status.StateError, msg.Err.Error())
	case !msg.Save.OK():
		v.setNotice(status.StateWarning, fmt.Sprintf("Added %s, but the cart could not be saved", msg.Item.Name))
	default:
		v.setNotice(status.StateSuccess, fmt.Sprintf("Added %s to cart ($%s)", msg.Item.Name, msg.Item.Price))
	}
	v.syncStatus()
}

func (v *View) setNotice(state status.State, text string) {
	v.notice = text
	v.noticeState = state
	v.syncStatus()
}

func (v *View) clearNotice() {
	v.notice = ""
	v.noticeState = ""
}

// syncStatus derives the status bar from the session and any pending notice.
func (v *View) syncStatus() {
	if v.cart != nil {
		v.statusbar.SetCartCount(len(v.cart.Cart()))
	}

	switch {
	case v.focusCountry:
		v.statusbar.SetState(status.StateEditingIn)
		v.statusbar.SetMessage("")
	case v.notice != "":
		v.statusbar.SetState(v.noticeState)
		v.statusbar.SetMessage(v.notice)
	case v.session != nil && v.session.Snapshot().IsAnalyzing:
		v.statusbar.SetState(status.StateWorking)
		v.statusbar.SetMessage("Analyzing photo")
	default:
		v.statusbar.Clear()
	}
}

// View renders the editor view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.session == nil {
		return v.styles.Error.Render(ErrNoSession.Error())
	}

	snap := v.session.Snapshot()
	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("QuickPass"), "")

	body := lipgloss.JoinHorizontal(lipgloss.Top, v.renderFrame(snap), "  ", v.renderDetails(snap))
	sections = append(sections, body, "", v.country.View())

	if line := v.renderResolution(); line != "" {
		sections = append(sections, line)
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderFrame draws a box with the preset's aspect ratio. Terminal cells
// are about twice as tall as wide.
func (v *View) renderFrame(snap domain.AppSession) string {
	frameWidth := v.width / 3
	if frameWidth < 16 {
		frameWidth = 16
	}
	ratio := v.presets.AspectRatio(snap.PresetID)
	frameHeight := int(float64(frameWidth) / ratio / 2)
	if frameHeight < 4 {
		frameHeight = 4
	}

	var badge string
	switch {
	case !snap.HasSource():
		badge = v.styles.Muted.Render("no photo")
	case snap.IsAnalyzing:
		badge = v.styles.Warning.Render("analyzing")
	case snap.PassedCompliance:
		badge = v.styles.Success.Render("✓ compliant")
	default:
		badge = v.styles.Muted.Render("not checked")
	}

	size := v.presets.PixelDimensions(snap.PresetID)
	content := lipgloss.Place(frameWidth, frameHeight, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, badge, v.styles.Muted.Render(fmt.Sprintf("%dx%d px", size.Width, size.Height))))
	return v.styles.Panel.Render(content)
}

func (v *View) renderDetails(snap domain.AppSession) string {
	service := "none"
	price := ""
	if snap.Service != nil {
		service = snap.Service.Name
		price = v.styles.Price.Render("$" + snap.Service.Price.String())
	}

	size := snap.PresetID
	if p, ok := v.presets.Preset(snap.PresetID); ok {
		size = fmt.Sprintf("%s (%s)", p.Label, p.ID)
	}

	t := snap.Transform
	rows := []string{
		v.row("Service", service+" "+price),
		v.row("Size", size),
		v.row("Zoom", fmt.Sprintf("%.2fx", t.Zoom)),
		v.row("Rotate", fmt.Sprintf("%+.0f°", t.RotateDegrees)),
		v.row("Brightness", fmt.Sprintf("%.0f%%", t.BrightnessPercent)),
		v.row("Offset", fmt.Sprintf("%+.0f, %+.0f", t.OffsetX, t.OffsetY)),
	}
	if snap.CheckoutPending {
		rows = append(rows, v.styles.Warning.Render("Payment in progress"))
	}
	return strings.Join(rows, "\n")
}

func (v *View) row(label, value string) string {
	return v.styles.Label.Render(label) + v.styles.Normal.Render(value)
}

func (v *View) renderResolution() string {
	r := v.resolution
	if strings.TrimSpace(r.Query) == "" {
		return ""
	}
	if !r.Found {
		return v.styles.Muted.Render(fmt.Sprintf("No preset found for %q", r.Query))
	}
	label := r.PresetID
	if p, ok := v.presets.Preset(r.PresetID); ok {
		label = p.Label
	}
	return v.styles.Success.Render(fmt.Sprintf("%s uses %s", r.Query, label))
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.country.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// CountryFocused reports whether key presses go to the country input.
func (v *View) CountryFocused() bool {
	return v.focusCountry
}

// Resolution returns the outcome of the last country query change.
func (v *View) Resolution() domain.CountryResolution {
	return v.resolution
}

// StatusBar returns the view's status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}
