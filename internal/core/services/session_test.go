package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/adapters/driven/clock"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// stubCompositor records compose calls and returns a tiny fake JPEG.
type stubCompositor struct {
	mu      sync.Mutex
	targets []domain.PixelSize
	last    domain.EditTransform
	err     error
}

func (s *stubCompositor) Compose(_ context.Context, src *domain.SourceImage, target domain.PixelSize, t domain.EditTransform) (*domain.RenderedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if src == nil {
		return nil, nil
	}
	s.targets = append(s.targets, target)
	s.last = t
	return &domain.RenderedImage{MIMEType: "image/jpeg", Width: target.Width, Height: target.Height, Data: []byte{0xFF, 0xD8}}, nil
}

func (s *stubCompositor) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets)
}

type sessionFixture struct {
	session    *SessionController
	clock      *clock.Manual
	store      *memory.StateStore
	cart       *OrderCartStore
	compositor *stubCompositor
	changes    int
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	presets := DefaultSizePresetCatalog()
	services, err := NewServiceCatalog(domain.DefaultServices(), presets)
	require.NoError(t, err)

	f := &sessionFixture{
		clock:      clock.NewManual(cartEpoch),
		compositor: &stubCompositor{},
		store:      memory.NewStateStore(0),
	}
	f.cart = NewOrderCartStore(f.store, nil, f.clock)

	f.session, err = NewSessionController(SessionConfig{
		Presets:    presets,
		Services:   services,
		Resolver:   NewCountryResolver(presets, domain.DefaultCountryAliases()),
		Compositor: f.compositor,
		Cart:       f.cart,
		Clock:      f.clock,
		OnChange:   func() { f.changes++ },
	})
	require.NoError(t, err)
	t.Cleanup(f.session.Close)
	return f
}

func testSource() *domain.SourceImage {
	return &domain.SourceImage{Image: image.NewRGBA(image.Rect(0, 0, 800, 1000)), MIMEType: "image/png"}
}

func TestNewSessionController_RequiresCollaborators(t *testing.T) {
	_, err := NewSessionController(SessionConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionController_InitialState(t *testing.T) {
	f := newSessionFixture(t)

	s := f.session.Snapshot()
	assert.Equal(t, domain.PhaseCapturing, s.Phase)
	assert.Equal(t, domain.DefaultEditTransform(), s.Transform)
	assert.False(t, s.HasSource())
	assert.Nil(t, s.Service)
}

func TestSessionController_SelectService(t *testing.T) {
	f := newSessionFixture(t)

	require.NoError(t, f.session.SelectService("jp-visa"))
	s := f.session.Snapshot()
	assert.Equal(t, "jp-visa", s.Service.ID)
	assert.Equal(t, "japan-45x45", s.PresetID)
	assert.Equal(t, domain.PresetSourceDefault, s.PresetSource)

	err := f.session.SelectService("mars-visa")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "jp-visa", f.session.Snapshot().Service.ID)
}

func TestSessionController_SetSourceStartsAnalysis(t *testing.T) {
	f := newSessionFixture(t)

	f.session.BeginCapture(domain.CaptureCamera)
	require.NoError(t, f.session.SetSource(testSource()))

	s := f.session.Snapshot()
	assert.Equal(t, domain.PhaseEditing, s.Phase)
	assert.Equal(t, domain.CaptureCamera, s.Source.Mode)
	assert.True(t, s.IsAnalyzing)
	assert.False(t, s.PassedCompliance)

	f.clock.Advance(1499 * time.Millisecond)
	assert.True(t, f.session.Snapshot().IsAnalyzing)

	f.clock.Advance(time.Millisecond)
	s = f.session.Snapshot()
	assert.False(t, s.IsAnalyzing)
	assert.True(t, s.PassedCompliance)
	assert.Equal(t, 1, f.changes)
}

func TestSessionController_SetSourceRejectsEmpty(t *testing.T) {
	f := newSessionFixture(t)

	assert.ErrorIs(t, f.session.SetSource(nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.session.SetSource(&domain.SourceImage{}), domain.ErrInvalidInput)
	assert.Equal(t, domain.PhaseCapturing, f.session.Snapshot().Phase)
}

func TestSessionController_ReenterEditorCancelsPendingAnalysis(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SetSource(testSource()))

	f.clock.Advance(time.Second)
	f.session.EnterEditor()
	assert.Equal(t, 1, f.clock.Pending())

	// The first task would have fired here.
	f.clock.Advance(600 * time.Millisecond)
	assert.True(t, f.session.Snapshot().IsAnalyzing)

	f.clock.Advance(900 * time.Millisecond)
	s := f.session.Snapshot()
	assert.False(t, s.IsAnalyzing)
	assert.True(t, s.PassedCompliance)
	assert.Equal(t, 1, f.changes)
}

func TestSessionController_EnterEditorResetsTransform(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SetSource(testSource()))

	require.NoError(t, f.session.UpdateTransform(domain.EditTransform{Zoom: 1.5, RotateDegrees: 10, BrightnessPercent: 120, OffsetX: 5}))
	f.clock.Advance(2 * time.Second)

	f.session.EnterEditor()
	s := f.session.Snapshot()
	assert.Equal(t, domain.DefaultEditTransform(), s.Transform)
	assert.True(t, s.IsAnalyzing)
	assert.False(t, s.PassedCompliance)
}

func TestSessionController_UpdateTransform(t *testing.T) {
	f := newSessionFixture(t)

	valid := domain.EditTransform{Zoom: 2, RotateDegrees: -45, BrightnessPercent: 150, OffsetX: -200, OffsetY: 200}
	require.NoError(t, f.session.UpdateTransform(valid))
	assert.Equal(t, valid, f.session.Snapshot().Transform)

	invalid := []domain.EditTransform{
		{Zoom: 0.99, BrightnessPercent: 100},
		{Zoom: 2.01, BrightnessPercent: 100},
		{Zoom: 1, RotateDegrees: 46, BrightnessPercent: 100},
		{Zoom: 1, BrightnessPercent: 49},
		{Zoom: 1, BrightnessPercent: 151},
		{Zoom: 1, BrightnessPercent: 100, OffsetX: 201},
		{Zoom: 1, BrightnessPercent: 100, OffsetY: -201},
		{Zoom: math.NaN(), BrightnessPercent: 100},
	}
	for _, tr := range invalid {
		err := f.session.UpdateTransform(tr)
		assert.ErrorIs(t, err, domain.ErrInvalidTransform, "%+v", tr)
	}
	assert.Equal(t, valid, f.session.Snapshot().Transform)
}

func TestSessionController_SetCountryQuery(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SelectService("us-passport"))

	res := f.session.SetCountryQuery("France")
	assert.True(t, res.Found)
	assert.True(t, res.Applied)
	assert.Equal(t, "schengen-35x45", res.PresetID)

	s := f.session.Snapshot()
	assert.Equal(t, "schengen-35x45", s.PresetID)
	assert.Equal(t, domain.PresetSourceCountry, s.PresetSource)
	assert.Equal(t, "France", s.CountryQuery)

	// Same preset: found but nothing to apply.
	res = f.session.SetCountryQuery("Netherlands")
	assert.True(t, res.Found)
	assert.False(t, res.Applied)

	// No match is informational; the preset stays.
	res = f.session.SetCountryQuery("Atlantis")
	assert.False(t, res.Found)
	assert.False(t, res.Applied)
	s = f.session.Snapshot()
	assert.Equal(t, "schengen-35x45", s.PresetID)
	assert.Equal(t, "Atlantis", s.CountryQuery)
}

func TestSessionController_ManualAndCountryPrecedence(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SelectService("any-document"))

	require.NoError(t, f.session.SelectPreset("uk-35x45"))
	assert.Equal(t, domain.PresetSourceManual, f.session.Snapshot().PresetSource)

	// A query resolving to the manual choice keeps it manual.
	res := f.session.SetCountryQuery("United Kingdom")
	assert.False(t, res.Applied)
	assert.Equal(t, domain.PresetSourceManual, f.session.Snapshot().PresetSource)

	// A query resolving elsewhere overrides it.
	res = f.session.SetCountryQuery("Japan")
	assert.True(t, res.Applied)
	s := f.session.Snapshot()
	assert.Equal(t, "japan-45x45", s.PresetID)
	assert.Equal(t, domain.PresetSourceCountry, s.PresetSource)

	// And a later manual choice wins again.
	require.NoError(t, f.session.SelectPreset("china-33x48"))
	assert.Equal(t, "china-33x48", f.session.Snapshot().PresetID)
}

func TestSessionController_SelectPresetUnknown(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SelectService("us-passport"))

	assert.ErrorIs(t, f.session.SelectPreset("moon-1x1"), domain.ErrInvalidInput)
	assert.Equal(t, "us-2x2", f.session.Snapshot().PresetID)
}

func TestSessionController_ApprovePreconditions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, _, err := f.session.Approve(ctx)
	assert.ErrorIs(t, err, domain.ErrMissingSource)

	require.NoError(t, f.session.SetSource(testSource()))
	_, _, err = f.session.Approve(ctx)
	assert.ErrorIs(t, err, domain.ErrMissingService)

	assert.Zero(t, f.compositor.calls())
	assert.Empty(t, f.cart.Cart())
	assert.Equal(t, domain.PhaseEditing, f.session.Snapshot().Phase)
}

func TestSessionController_Approve(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.SelectService("eu-visa"))
	require.NoError(t, f.session.SetSource(testSource()))
	f.session.SetCountryQuery("Germany")
	tr := domain.EditTransform{Zoom: 1.2, RotateDegrees: 3, BrightnessPercent: 110}
	require.NoError(t, f.session.UpdateTransform(tr))

	// Approving while the analysis still runs is allowed.
	require.True(t, f.session.Snapshot().IsAnalyzing)
	item, res, err := f.session.Approve(ctx)
	require.NoError(t, err)
	assert.True(t, res.OK())

	assert.Equal(t, []domain.PixelSize{{Width: 413, Height: 531}}, f.compositor.targets)
	assert.Equal(t, tr, f.compositor.last)

	assert.Equal(t, "Schengen Visa", item.Name)
	assert.Equal(t, domain.Cents(12, 99), item.Price)
	assert.Equal(t, "schengen-35x45", item.PresetID)
	assert.Equal(t, "35 x 45 mm", item.SizeLabel)
	assert.Equal(t, "Germany", item.CountryHint)
	assert.Equal(t, 413, item.RenderedImage.Width)
	assert.Equal(t, "35-x-45-mm-quickpass-1.jpg", item.FileName(1))

	assert.Len(t, f.cart.Cart(), 1)
	assert.Equal(t, domain.PhaseReviewed, f.session.Snapshot().Phase)
}

func TestSessionController_ApproveComposeFailure(t *testing.T) {
	f := newSessionFixture(t)
	f.compositor.err = errors.New("out of memory")

	require.NoError(t, f.session.SelectService("us-passport"))
	require.NoError(t, f.session.SetSource(testSource()))

	_, _, err := f.session.Approve(context.Background())
	assert.Error(t, err)
	assert.Empty(t, f.cart.Cart())
	assert.Equal(t, domain.PhaseEditing, f.session.Snapshot().Phase)
}

func TestSessionController_Checkout(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	err := f.session.StartCheckout(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	require.NoError(t, f.session.SelectService("us-passport"))
	require.NoError(t, f.session.SetSource(testSource()))
	_, _, err = f.session.Approve(ctx)
	require.NoError(t, err)

	var (
		gotOrder *domain.Order
		gotSave  domain.SaveResult
		gotErr   error
		calls    int
	)
	done := func(o *domain.Order, save domain.SaveResult, err error) {
		calls++
		gotOrder, gotSave, gotErr = o, save, err
	}

	require.NoError(t, f.session.StartCheckout(ctx, done))
	assert.True(t, f.session.Snapshot().CheckoutPending)
	assert.ErrorIs(t, f.session.StartCheckout(ctx, done), domain.ErrCheckoutInProgress)

	f.clock.Advance(1999 * time.Millisecond)
	assert.Zero(t, calls)
	assert.Len(t, f.cart.Cart(), 1)

	f.clock.Advance(time.Millisecond)
	require.Equal(t, 1, calls)
	require.NoError(t, gotErr)
	assert.Equal(t, domain.Cents(14, 99), gotOrder.Total)
	assert.True(t, gotSave.OK())
	assert.False(t, f.session.Snapshot().CheckoutPending)
	assert.Empty(t, f.cart.Cart())
	assert.Len(t, f.cart.Orders(), 1)
}

func TestSessionController_CheckoutPassesSaveResult(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.session.SelectService("us-passport"))
	require.NoError(t, f.session.SetSource(testSource()))
	_, _, err := f.session.Approve(ctx)
	require.NoError(t, err)

	f.store.FailWith(fmt.Errorf("%w: storage full", domain.ErrQuotaExceeded))

	var (
		order *domain.Order
		save  domain.SaveResult
	)
	require.NoError(t, f.session.StartCheckout(ctx, func(o *domain.Order, s domain.SaveResult, err error) {
		require.NoError(t, err)
		order, save = o, s
	}))
	f.clock.Advance(DefaultPaymentDelay)

	require.NotNil(t, order)
	assert.False(t, save.OK())
	assert.Equal(t, domain.SaveTooLarge, save.Status)
	assert.Equal(t, domain.RecordOrders, save.Key)
	assert.Equal(t, save, f.cart.LastSave())
}

func TestSessionController_CheckoutSurvivesCancelAndClose(t *testing.T) {
	f := newSessionFixture(t)

	require.NoError(t, f.session.SelectService("us-passport"))
	require.NoError(t, f.session.SetSource(testSource()))
	_, _, err := f.session.Approve(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var order *domain.Order
	require.NoError(t, f.session.StartCheckout(ctx, func(o *domain.Order, _ domain.SaveResult, _ error) { order = o }))
	cancel()
	f.session.Close()

	f.clock.Advance(3 * time.Second)
	require.NotNil(t, order)
	assert.Len(t, f.cart.Orders(), 1)
}

func TestSessionController_CloseStopsAnalysis(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SetSource(testSource()))

	f.session.Close()
	f.clock.Advance(5 * time.Second)

	assert.False(t, f.session.Snapshot().PassedCompliance)
	assert.Zero(t, f.changes)
}

func TestSessionController_BeginCaptureDiscardsSource(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SetSource(testSource()))

	f.session.BeginCapture(domain.CaptureUpload)
	s := f.session.Snapshot()
	assert.Equal(t, domain.PhaseCapturing, s.Phase)
	assert.False(t, s.HasSource())
	assert.False(t, s.IsAnalyzing)

	// The discarded source's analysis never completes.
	f.clock.Advance(5 * time.Second)
	assert.False(t, f.session.Snapshot().PassedCompliance)
}

func TestSessionController_AcquisitionFailed(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SelectService("us-passport"))
	f.session.BeginCapture(domain.CaptureCamera)
	before := f.session.Snapshot()

	cause := errors.New("camera permission denied")
	err := f.session.AcquisitionFailed(cause)
	assert.ErrorIs(t, err, domain.ErrAcquisition)
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, before, f.session.Snapshot())
}

func TestSessionController_SnapshotIsCopy(t *testing.T) {
	f := newSessionFixture(t)
	require.NoError(t, f.session.SelectService("us-passport"))

	s := f.session.Snapshot()
	s.Service.Price = 1

	assert.Equal(t, domain.Cents(14, 99), f.session.Snapshot().Service.Price)
}
