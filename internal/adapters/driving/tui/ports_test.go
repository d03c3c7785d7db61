package tui

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/adapters/driven/clock"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/services"
)

type stubCompositor struct{}

func (stubCompositor) Compose(_ context.Context, _ *domain.SourceImage, target domain.PixelSize, _ domain.EditTransform) (*domain.RenderedImage, error) {
	return &domain.RenderedImage{MIMEType: "image/jpeg", Width: target.Width, Height: target.Height, Data: []byte{0xFF, 0xD8}}, nil
}

type testEnv struct {
	ports    *Ports
	session  *services.SessionController
	cart     *services.OrderCartStore
	clock    *clock.Manual
	notifier *Notifier
}

// newTestEnv wires real services over a memory store and a manual clock,
// with a photo loaded for the Schengen visa service.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	presets := services.DefaultSizePresetCatalog()
	catalog, err := services.NewServiceCatalog(domain.DefaultServices(), presets)
	require.NoError(t, err)

	env := &testEnv{
		clock:    clock.NewManual(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		notifier: NewNotifier(),
	}
	env.cart = services.NewOrderCartStore(memory.NewStateStore(0), nil, env.clock)
	env.session, err = services.NewSessionController(services.SessionConfig{
		Presets:    presets,
		Services:   catalog,
		Resolver:   services.NewCountryResolver(presets, domain.DefaultCountryAliases()),
		Compositor: stubCompositor{},
		Cart:       env.cart,
		Clock:      env.clock,
		OnChange:   env.notifier.Notify,
	})
	require.NoError(t, err)
	t.Cleanup(env.session.Close)

	require.NoError(t, env.session.SelectService("eu-visa"))
	env.session.BeginCapture(domain.CaptureUpload)
	require.NoError(t, env.session.SetSource(&domain.SourceImage{Image: image.NewRGBA(image.Rect(0, 0, 80, 100))}))

	env.ports = NewPorts(env.session, presets, catalog, env.cart)
	return env
}

func TestNewPorts(t *testing.T) {
	env := newTestEnv(t)

	assert.NotNil(t, env.ports.Session)
	assert.NotNil(t, env.ports.Presets)
	assert.NotNil(t, env.ports.Services)
	assert.NotNil(t, env.ports.Cart)
	assert.NoError(t, env.ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(p *Ports)
		want   error
	}{
		{"missing session", func(p *Ports) { p.Session = nil }, ErrMissingSession},
		{"missing presets", func(p *Ports) { p.Presets = nil }, ErrMissingPresetCatalog},
		{"missing services", func(p *Ports) { p.Services = nil }, ErrMissingServiceCatalog},
		{"missing cart", func(p *Ports) { p.Cart = nil }, ErrMissingCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := *env.ports
			tt.mutate(&p)

			assert.ErrorIs(t, p.Validate(), tt.want)
		})
	}
}

func TestPorts_ValidateNil(t *testing.T) {
	var p *Ports
	assert.ErrorIs(t, p.Validate(), ErrInvalidPorts)
}
