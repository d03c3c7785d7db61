package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestEditCmd_RequiresTerminal(t *testing.T) {
	env := setupTestServices(t)
	src := env.writePNG(t, "me.png")

	_, _, err := run(t, "edit", src)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestLoadEditSession(t *testing.T) {
	env := setupTestServices(t)
	data, err := os.ReadFile(env.writePNG(t, "me.png"))
	require.NoError(t, err)

	session, err := wired.NewSession(nil)
	require.NoError(t, err)
	defer session.Close()

	editService, editCountry = "any-document", "japan"
	defer func() { editService, editCountry = "", "" }()

	require.NoError(t, loadEditSession(session, data))

	snap := session.Snapshot()
	assert.Equal(t, domain.PhaseEditing, snap.Phase)
	assert.True(t, snap.HasSource())
	assert.Equal(t, "any-document", snap.Service.ID)
	assert.Equal(t, "japan-45x45", snap.PresetID)
	assert.Equal(t, domain.PresetSourceCountry, snap.PresetSource)
}

func TestLoadEditSession_BadImage(t *testing.T) {
	env := setupTestServices(t)
	path := filepath.Join(env.dir, "bad.jpg")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	session, err := wired.NewSession(nil)
	require.NoError(t, err)
	defer session.Close()

	err = loadEditSession(session, data)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAcquisition)
	assert.False(t, session.Snapshot().HasSource())
}

func TestLoadEditSession_UnknownService(t *testing.T) {
	env := setupTestServices(t)
	data, err := os.ReadFile(env.writePNG(t, "me.png"))
	require.NoError(t, err)

	session, err := wired.NewSession(nil)
	require.NoError(t, err)
	defer session.Close()

	editService = "moon-visa"
	defer func() { editService = "" }()

	assert.Error(t, loadEditSession(session, data))
}
