package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// Ensure SessionController implements the interface.
var _ driving.SessionController = (*SessionController)(nil)

// Default simulated delays.
const (
	DefaultAnalysisDelay = 1500 * time.Millisecond
	DefaultPaymentDelay  = 2000 * time.Millisecond
)

// SessionConfig wires a SessionController to its collaborators.
type SessionConfig struct {
	Presets    driving.PresetCatalog
	Services   driving.ServiceCatalog
	Resolver   driving.CountryResolver
	Compositor driven.Compositor
	Cart       driving.OrderCartService
	Clock      driven.Clock

	// AnalysisDelay is how long the simulated compliance check runs. Zero uses the default.
	AnalysisDelay time.Duration

	// PaymentDelay is how long the simulated payment takes. Zero uses the default.
	PaymentDelay time.Duration

	// OnChange, if set, is called after state changes made by timed tasks.
	// It runs without the session lock held.
	OnChange func()
}

// SessionController is the edit-session state machine. It owns the session
// state, the analysis timer and the checkout timer.
type SessionController struct {
	presets    driving.PresetCatalog
	services   driving.ServiceCatalog
	resolver   driving.CountryResolver
	compositor driven.Compositor
	cart       driving.OrderCartService
	clock      driven.Clock
	onChange   func()

	analysisDelay time.Duration
	paymentDelay  time.Duration

	mu          sync.Mutex
	state       domain.AppSession
	captureMode domain.CaptureMode
	analysis    driven.Timer
	analysisGen uint64
	closed      bool
}

// NewSessionController creates a controller in the capturing phase with
// the default transform.
func NewSessionController(cfg SessionConfig) (*SessionController, error) {
	switch {
	case cfg.Presets == nil:
		return nil, fmt.Errorf("%w: preset catalog is required", domain.ErrInvalidInput)
	case cfg.Services == nil:
		return nil, fmt.Errorf("%w: service catalog is required", domain.ErrInvalidInput)
	case cfg.Resolver == nil:
		return nil, fmt.Errorf("%w: country resolver is required", domain.ErrInvalidInput)
	case cfg.Compositor == nil:
		return nil, fmt.Errorf("%w: compositor is required", domain.ErrInvalidInput)
	case cfg.Cart == nil:
		return nil, fmt.Errorf("%w: cart is required", domain.ErrInvalidInput)
	case cfg.Clock == nil:
		return nil, fmt.Errorf("%w: clock is required", domain.ErrInvalidInput)
	}

	analysisDelay := cfg.AnalysisDelay
	if analysisDelay <= 0 {
		analysisDelay = DefaultAnalysisDelay
	}
	paymentDelay := cfg.PaymentDelay
	if paymentDelay <= 0 {
		paymentDelay = DefaultPaymentDelay
	}

	return &SessionController{
		presets:       cfg.Presets,
		services:      cfg.Services,
		resolver:      cfg.Resolver,
		compositor:    cfg.Compositor,
		cart:          cfg.Cart,
		clock:         cfg.Clock,
		onChange:      cfg.OnChange,
		analysisDelay: analysisDelay,
		paymentDelay:  paymentDelay,
		state: domain.AppSession{
			Phase:     domain.PhaseCapturing,
			Transform: domain.DefaultEditTransform(),
		},
	}, nil
}

// SelectService chooses the product and applies its default preset.
func (c *SessionController) SelectService(id string) error {
	svc, ok := c.services.Service(id)
	if !ok {
		return fmt.Errorf("service %q: %w", id, domain.ErrNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Service = &svc
	c.state.PresetID = svc.DefaultPresetID
	c.state.PresetSource = domain.PresetSourceDefault
	logger.Debug("service %s selected, preset %s", svc.ID, svc.DefaultPresetID)
	return nil
}

// BeginCapture enters the capturing phase and discards any previous source.
func (c *SessionController) BeginCapture(mode domain.CaptureMode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAnalysisLocked()
	c.captureMode = mode
	c.state.Phase = domain.PhaseCapturing
	c.state.Source = nil
	c.state.IsAnalyzing = false
	c.state.PassedCompliance = false
}

// AcquisitionFailed leaves the session untouched and returns the cause
// classified as an acquisition failure, so callers can offer the upload fallback.
func (c *SessionController) AcquisitionFailed(cause error) error {
	logger.Warn("photo acquisition failed: %v", cause)
	if errors.Is(cause, domain.ErrAcquisition) {
		return cause
	}
	return fmt.Errorf("%w: %w", domain.ErrAcquisition, cause)
}

// SetSource stores a freshly acquired photo and enters the editor.
func (c *SessionController) SetSource(src *domain.SourceImage) error {
	if src == nil || src.Image == nil {
		return fmt.Errorf("%w: empty source image", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := *src
	if s.Mode == "" {
		s.Mode = c.captureMode
	}
	c.state.Source = &s
	c.enterEditorLocked()
	return nil
}

// EnterEditor resets the transform and restarts the simulated analysis.
func (c *SessionController) EnterEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enterEditorLocked()
}

func (c *SessionController) enterEditorLocked() {
	c.stopAnalysisLocked()

	c.state.Phase = domain.PhaseEditing
	c.state.Transform = domain.DefaultEditTransform()
	c.state.IsAnalyzing = true
	c.state.PassedCompliance = false

	if c.closed {
		return
	}
	gen := c.analysisGen
	c.analysis = c.clock.AfterFunc(c.analysisDelay, func() {
		c.finishAnalysis(gen)
	})
}

// finishAnalysis completes the simulated compliance check unless it was superseded.
func (c *SessionController) finishAnalysis(gen uint64) {
	c.mu.Lock()
	if gen != c.analysisGen || c.closed {
		c.mu.Unlock()
		return
	}
	c.analysis = nil
	c.state.IsAnalyzing = false
	c.state.PassedCompliance = true
	c.mu.Unlock()

	logger.Debug("analysis complete")
	c.notify()
}

// stopAnalysisLocked cancels the pending analysis task and invalidates its callback.
func (c *SessionController) stopAnalysisLocked() {
	c.analysisGen++
	if c.analysis != nil {
		c.analysis.Stop()
		c.analysis = nil
	}
}

// UpdateTransform replaces the edit transform after range validation.
func (c *SessionController) UpdateTransform(t domain.EditTransform) error {
	if err := ValidateTransform(t); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Transform = t
	return nil
}

// SetCountryQuery stores the query and, when it resolves to a preset other
// than the current one, applies it.
func (c *SessionController) SetCountryQuery(text string) domain.CountryResolution {
	id, ok := c.resolver.Resolve(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CountryQuery = text
	res := domain.CountryResolution{Query: text, PresetID: id, Found: ok}
	if ok && id != c.state.PresetID {
		c.state.PresetID = id
		c.state.PresetSource = domain.PresetSourceCountry
		res.Applied = true
		logger.Debug("country %q applied preset %s", text, id)
	}
	return res
}

// SelectPreset records a manual preset choice.
func (c *SessionController) SelectPreset(id string) error {
	if _, ok := c.presets.Preset(id); !ok {
		return fmt.Errorf("%w: unknown preset %q", domain.ErrInvalidInput, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.PresetID = id
	c.state.PresetSource = domain.PresetSourceManual
	return nil
}

// Approve composes the current photo at the selected preset's pixel size and
// adds it to the cart. It does not wait for the analysis to finish.
func (c *SessionController) Approve(ctx context.Context) (domain.CartItem, domain.SaveResult, error) {
	c.mu.Lock()
	if !c.state.HasSource() {
		c.mu.Unlock()
		return domain.CartItem{}, domain.SaveResult{Status: domain.SaveSkipped}, domain.ErrMissingSource
	}
	if c.state.Service == nil {
		c.mu.Unlock()
		return domain.CartItem{}, domain.SaveResult{Status: domain.SaveSkipped}, domain.ErrMissingService
	}
	src := c.state.Source
	svc := *c.state.Service
	presetID := c.state.PresetID
	transform := c.state.Transform
	hint := c.state.CountryQuery
	c.mu.Unlock()

	target := c.presets.PixelDimensions(presetID)
	rendered, err := c.compositor.Compose(ctx, src, target, transform)
	if err != nil {
		return domain.CartItem{}, domain.SaveResult{Status: domain.SaveSkipped}, fmt.Errorf("compose photo: %w", err)
	}

	label := fmt.Sprintf("%d x %d px", target.Width, target.Height)
	if p, ok := c.presets.Preset(presetID); ok {
		label = p.Label
	}

	item, result := c.cart.AddToCart(ctx, domain.NewCartItem{
		Service:       svc,
		RenderedImage: rendered,
		PresetID:      presetID,
		SizeLabel:     label,
		CountryHint:   hint,
	})

	c.mu.Lock()
	c.state.Phase = domain.PhaseReviewed
	c.mu.Unlock()

	return item, result, nil
}

// StartCheckout schedules the simulated payment. Once started it cannot be
// cancelled; done receives the created order and its save result, or the
// checkout error.
func (c *SessionController) StartCheckout(ctx context.Context, done driving.CheckoutCallback) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.CheckoutPending {
		return domain.ErrCheckoutInProgress
	}
	if len(c.cart.Cart()) == 0 {
		return domain.ErrEmptyCart
	}

	c.state.CheckoutPending = true
	checkoutCtx := context.WithoutCancel(ctx)
	c.clock.AfterFunc(c.paymentDelay, func() {
		order, save, err := c.cart.Checkout(checkoutCtx)

		c.mu.Lock()
		c.state.CheckoutPending = false
		c.mu.Unlock()

		if done != nil {
			done(order, save, err)
		}
		c.notify()
	})
	logger.Debug("checkout started, payment completes in %s", c.paymentDelay)
	return nil
}

// Snapshot returns a copy of the session state.
func (c *SessionController) Snapshot() domain.AppSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Service != nil {
		svc := *s.Service
		s.Service = &svc
	}
	return s
}

// Close stops pending analysis work. A checkout already started still completes.
func (c *SessionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAnalysisLocked()
	c.closed = true
}

func (c *SessionController) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
