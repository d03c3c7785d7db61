// Package cli provides the quickpass command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	verbose  bool
	noConfig bool
)

// annotationNoServices marks commands that run without wiring services.
const annotationNoServices = "quickpass/no-services"

// Options carries the global flags to the service factory.
type Options struct {
	Verbose  bool
	NoConfig bool
}

// Services holds the driving ports the commands use.
type Services struct {
	Presets  driving.PresetCatalog
	Catalog  driving.ServiceCatalog
	Resolver driving.CountryResolver
	Cart     driving.OrderCartService
	Account  driving.AccountService
	Settings driving.SettingsService
	Importer driving.PhotoImporter

	// Decode turns raw image bytes into a source photo for an edit session.
	Decode func(data []byte, mode domain.CaptureMode) (*domain.SourceImage, error)

	// NewSession creates an interactive edit session. onChange runs on timer goroutines.
	NewSession func(onChange func()) (driving.SessionController, error)

	// ExportOrder writes an order's images into dir and returns the paths.
	ExportOrder func(order *domain.Order, dir string) ([]string, error)

	// Close releases stores opened for the services.
	Close func() error
}

// Factory builds the services once flags are parsed.
type Factory func(ctx context.Context, opts Options) (*Services, error)

var (
	factory  Factory
	closeFn  func() error
	wired    Services
)

// Package-level ports used by the commands. SetServices assigns them.
var (
	presetCatalog   driving.PresetCatalog
	serviceCatalog  driving.ServiceCatalog
	countryResolver driving.CountryResolver
	cartService     driving.OrderCartService
	accountService  driving.AccountService
	settingsService driving.SettingsService
	photoImporter   driving.PhotoImporter
)

var rootCmd = &cobra.Command{
	Use:   "quickpass",
	Short: "Passport and visa photos from the terminal",
	Long: `QuickPass turns a portrait into a compliant passport or visa photo.

Pick a service, let QuickPass size the photo for your country, adjust the
crop in the editor and check out. Photos can also be added in bulk from a
watched folder or driven by an AI assistant over MCP.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: closeServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file and keep state in memory")
}

// Execute runs the root command.
func Execute(ctx context.Context, v string, f Factory) error {
	version = v
	factory = f
	return rootCmd.ExecuteContext(ctx)
}

// SetServices assigns the ports used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	wired = *s
	presetCatalog = s.Presets
	serviceCatalog = s.Catalog
	countryResolver = s.Resolver
	cartService = s.Cart
	accountService = s.Account
	settingsService = s.Settings
	photoImporter = s.Importer
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if factory == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	s, err := factory(cmd.Context(), Options{Verbose: verbose, NoConfig: noConfig})
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(s)
	closeFn = s.Close
	return nil
}

func closeServices(_ *cobra.Command, _ []string) error {
	if closeFn == nil {
		return nil
	}
	fn := closeFn
	closeFn = nil
	return fn()
}

// reportSave warns when a mutation was kept in memory but not persisted.
func reportSave(cmd *cobra.Command, res domain.SaveResult) {
	if res.OK() {
		return
	}
	if res.Err != nil {
		cmd.PrintErrf("warning: %s was not saved (%s): %v\n", res.Key, res.Status, res.Err)
		return
	}
	cmd.PrintErrf("warning: %s was not saved (%s)\n", res.Key, res.Status)
}
