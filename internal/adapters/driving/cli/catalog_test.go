package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestPresetsCmd_ListsEveryPreset(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "presets")

	require.NoError(t, err)
	assert.Contains(t, out, "us-2x2")
	assert.Contains(t, out, "600x600")
	assert.Contains(t, out, "schengen-35x45")
	assert.Contains(t, out, "us-visa-2x2")
}

func TestPresetsCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "presets", "--json")
	require.NoError(t, err)

	var views []presetView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 12)
	assert.Equal(t, "us-2x2", views[0].ID)
	assert.Equal(t, 600, views[0].WidthPx)
	assert.Equal(t, 413, views[1].WidthPx)
	assert.Equal(t, 531, views[1].HeightPx)
}

func TestPresetsShowCmd(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "presets", "show", "schengen-35x45")

	require.NoError(t, err)
	assert.Contains(t, out, "35 x 45 mm")
	assert.Contains(t, out, "413 x 531")
	assert.Contains(t, out, "Germany")
}

func TestPresetsShowCmd_Unknown(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "presets", "show", "mars-1x1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServicesCmd(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "services")

	require.NoError(t, err)
	assert.Contains(t, out, "us-passport")
	assert.Contains(t, out, "14.99")
	assert.Contains(t, out, "any-document")
	assert.Contains(t, out, "9.99")
}

func TestResolveCmd(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		expected string
	}{
		{"alias", "usa", "usa: us-2x2 (2 x 2 in, 600x600 px)"},
		{"country list", "Germany", "Germany: schengen-35x45"},
		{"case and spaces", "  JAPAN ", "japan-45x45"},
		{"miss", "Atlantis", `No preset found for "Atlantis".`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			out, _, err := run(t, "resolve", tt.country)

			require.NoError(t, err)
			assert.Contains(t, out, tt.expected)
		})
	}
}

func TestCatalogCmds_NotConfigured(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{{"presets"}, {"services"}, {"resolve", "usa"}} {
		_, _, err := run(t, args...)
		assert.Error(t, err, args)
	}
}
