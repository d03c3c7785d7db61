package mcp

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/services"
)

func TestNewServer(t *testing.T) {
	t.Run("missing catalog returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingPresetCatalog)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(newTestPorts(t))
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestWithVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"build version", "1.4.2", "1.4.2"},
		{"empty keeps default", "", Version},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impl := &mcp.Implementation{Name: "quickpass", Version: Version}
			WithVersion(tt.version)(impl)
			assert.Equal(t, tt.want, impl.Version)
		})
	}
}

func TestInstructions(t *testing.T) {
	t.Run("catalog only", func(t *testing.T) {
		presets := services.DefaultSizePresetCatalog()
		text := instructions(&Ports{Presets: presets, Resolver: services.NewCountryResolver(presets, nil)})

		assert.Contains(t, text, "resolve_country")
		assert.Contains(t, text, "300 DPI")
		assert.NotContains(t, text, "list_services")
		assert.NotContains(t, text, "cart_summary")
	})

	t.Run("all ports", func(t *testing.T) {
		text := instructions(newTestPorts(t))

		assert.Contains(t, text, "list_services")
		assert.Contains(t, text, "quickpass://orders")
	})
}

func TestPorts_Validate(t *testing.T) {
	presets := services.DefaultSizePresetCatalog()

	t.Run("missing resolver returns error", func(t *testing.T) {
		ports := &Ports{Presets: presets}
		assert.ErrorIs(t, ports.Validate(), ErrMissingResolver)
	})

	t.Run("catalog and resolver are enough", func(t *testing.T) {
		ports := &Ports{
			Presets:  presets,
			Resolver: services.NewCountryResolver(presets, nil),
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		assert.NoError(t, newTestPorts(t).Validate())
	})
}
