package cli

import (
	"bytes"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestComposeCmd_WritesSizedJPEG(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")
	out := filepath.Join(env.dir, "out.jpg")

	stdout, _, err := run(t, "compose", src, "--country", "germany", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out+" (413x531, schengen-35x45)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 413, img.Bounds().Dx())
	assert.Equal(t, 531, img.Bounds().Dy())

	assert.Empty(t, env.cart.Cart(), "compose never touches the cart")
}

func TestComposeCmd_ServiceDefaultPreset(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")
	out := filepath.Join(env.dir, "us.jpg")

	stdout, _, err := run(t, "compose", src, "--service", "us-passport", "-o", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "600x600, us-2x2")
}

func TestComposeCmd_UnresolvedCountryNotes(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")

	_, stderr, err := run(t, "compose", src, "-s", "eu-visa", "-c", "Atlantis", "-o", filepath.Join(env.dir, "x.jpg"))

	require.NoError(t, err)
	assert.Contains(t, stderr, `no preset found for "Atlantis"`)
}

func TestComposeCmd_RejectsOutOfRangeTransform(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")

	_, _, err := run(t, "compose", src, "-p", "us-2x2", "--zoom", "3", "-o", filepath.Join(env.dir, "x.jpg"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransform)
}

func TestComposeCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "compose", "/does/not/exist.png", "-p", "us-2x2")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAcquisition)
}

func TestAddCmd_AddsToCart(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")

	out, _, err := run(t, "add", src, "--service", "uk-passport")

	require.NoError(t, err)
	assert.Contains(t, out, "Added UK Passport Photo (35 x 45 mm) for $12.99")
	require.Len(t, env.cart.Cart(), 1)
	assert.Equal(t, "uk-35x45", env.cart.Cart()[0].PresetID)
}

func TestAddCmd_CountryOverridesServiceDefault(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")

	_, _, err := run(t, "add", src, "-s", "any-document", "-c", "japan")

	require.NoError(t, err)
	items := env.cart.Cart()
	require.Len(t, items, 1)
	assert.Equal(t, "japan-45x45", items[0].PresetID)
	assert.Equal(t, domain.Cents(9, 99), items[0].Price)
}

func TestAddCmd_RequiresService(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")

	_, _, err := run(t, "add", src)

	require.Error(t, err)
	assert.Empty(t, env.cart.Cart())
}

func TestAddCmd_CorruptImageLeavesCartAlone(t *testing.T) {
	env := setupTestServices(t)
	path := filepath.Join(env.dir, "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	_, _, err := run(t, "add", path, "-s", "us-passport")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAcquisition)
	assert.Empty(t, env.cart.Cart())
}
