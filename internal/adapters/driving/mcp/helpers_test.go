package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/adapters/driven/clock"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/core/services"
)

func newTestPorts(t *testing.T) *Ports {
	t.Helper()

	presets := services.DefaultSizePresetCatalog()
	catalog, err := services.NewServiceCatalog(domain.DefaultServices(), presets)
	require.NoError(t, err)

	return &Ports{
		Presets:  presets,
		Resolver: services.NewCountryResolver(presets, domain.DefaultCountryAliases()),
		Services: catalog,
		Cart: services.NewOrderCartStore(
			memory.NewStateStore(0),
			nil,
			clock.NewManual(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		),
	}
}

func addTestItem(t *testing.T, cart driving.OrderCartService, serviceID string) {
	t.Helper()

	for _, svc := range domain.DefaultServices() {
		if svc.ID != serviceID {
			continue
		}
		cart.AddToCart(context.Background(), domain.NewCartItem{
			Service:       svc,
			RenderedImage: &domain.RenderedImage{MIMEType: "image/jpeg", Width: 600, Height: 600, Data: []byte{0xFF, 0xD8}},
			PresetID:      svc.DefaultPresetID,
			SizeLabel:     "2 x 2 in",
		})
		return
	}
	t.Fatalf("unknown service %s", serviceID)
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
