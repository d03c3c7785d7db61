package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/adapters/driven/clock"
	"github.com/custodia-labs/quickpass/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	coreservices "github.com/custodia-labs/quickpass/internal/core/services"
	"github.com/custodia-labs/quickpass/internal/imaging"
)

// testEnv holds the real services wired over in-memory stores.
type testEnv struct {
	cart     *coreservices.OrderCartStore
	account  *coreservices.AccountService
	settings *coreservices.SettingsService
	state    *memory.StateStore
	dir      string
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	presets := coreservices.DefaultSizePresetCatalog()
	catalog, err := coreservices.NewServiceCatalog(domain.DefaultServices(), presets)
	require.NoError(t, err)
	resolver := coreservices.NewCountryResolver(presets, domain.DefaultCountryAliases())

	state := memory.NewStateStore(0)
	cart := coreservices.NewOrderCartStore(state, nil, clock.Real{})
	account := coreservices.NewAccountService(state)
	settings := coreservices.NewSettingsService(memory.NewConfigStore())
	decoder := imaging.NewDecoder(0)

	cfg := coreservices.SessionConfig{
		Presets:       presets,
		Services:      catalog,
		Resolver:      resolver,
		Compositor:    imaging.NewCompositor(90),
		Cart:          cart,
		Clock:         clock.Real{},
		AnalysisDelay: time.Millisecond,
		PaymentDelay:  time.Millisecond,
	}

	SetServices(&Services{
		Presets:  presets,
		Catalog:  catalog,
		Resolver: resolver,
		Cart:     cart,
		Account:  account,
		Settings: settings,
		Importer: coreservices.NewImporter(decoder, cfg),
		Decode:   decoder.Decode,
		NewSession: func(onChange func()) (driving.SessionController, error) {
			c := cfg
			c.OnChange = onChange
			return coreservices.NewSessionController(c)
		},
		ExportOrder: coreservices.ExportOrder,
	})
	t.Cleanup(func() { SetServices(nil) })

	return &testEnv{
		cart:     cart,
		account:  account,
		settings: settings,
		state:    state,
		dir:      t.TempDir(),
	}
}

// writePNG writes a mid-grey portrait to the env's temp dir.
func (e *testEnv) writePNG(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 300, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 110, B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// addItem approves a photo straight through the importer.
func (e *testEnv) addItem(t *testing.T, serviceID string) domain.CartItem {
	t.Helper()
	data, err := os.ReadFile(e.writePNG(t, serviceID+".png"))
	require.NoError(t, err)
	res, err := photoImporter.Import(context.Background(), driving.ImportRequest{
		Data:      data,
		Mode:      domain.CaptureUpload,
		ServiceID: serviceID,
	})
	require.NoError(t, err)
	return res.Item
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
