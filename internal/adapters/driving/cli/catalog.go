package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List photo size presets",
	Long: `Lists every document photo size with its pixel size at 300 DPI
and the countries that use it.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show [preset-id]",
	Short: "Show one preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List purchasable photo services",
	Args:  cobra.NoArgs,
	RunE:  runServices,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [country]",
	Short: "Find the photo size for a country",
	Long: `Resolves free-text country input, e.g. "germany" or "Côte d'Ivoire",
to a size preset. Matching ignores case, accents and surrounding spaces.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "output presets as JSON")
	presetsCmd.AddCommand(presetsShowCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(resolveCmd)
}

// presetView is the JSON shape of a preset with its derived geometry.
type presetView struct {
	domain.SizePreset
	WidthPx     int     `json:"width_px"`
	HeightPx    int     `json:"height_px"`
	AspectRatio float64 `json:"aspect_ratio"`
}

func runPresets(cmd *cobra.Command, _ []string) error {
	if presetCatalog == nil {
		return errors.New("preset catalog not configured")
	}

	presets := presetCatalog.Presets()
	if presetsJSON {
		views := make([]presetView, 0, len(presets))
		for _, p := range presets {
			size := presetCatalog.PixelDimensions(p.ID)
			views = append(views, presetView{
				SizePreset:  p,
				WidthPx:     size.Width,
				HeightPx:    size.Height,
				AspectRatio: presetCatalog.AspectRatio(p.ID),
			})
		}
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal presets: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Presets:")
	cmd.Println()
	for _, p := range presets {
		size := presetCatalog.PixelDimensions(p.ID)
		cmd.Printf("  %-16s %-12s %4dx%-4d px  %s\n", p.ID, p.Label, size.Width, size.Height, p.Description)
	}
	return nil
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	if presetCatalog == nil {
		return errors.New("preset catalog not configured")
	}

	p, ok := presetCatalog.Preset(args[0])
	if !ok {
		return fmt.Errorf("preset %q: %w", args[0], domain.ErrNotFound)
	}

	size := presetCatalog.PixelDimensions(p.ID)
	cmd.Printf("ID:          %s\n", p.ID)
	cmd.Printf("Size:        %s\n", p.Label)
	cmd.Printf("Pixels:      %d x %d (300 DPI)\n", size.Width, size.Height)
	cmd.Printf("Aspect:      %.4f\n", presetCatalog.AspectRatio(p.ID))
	cmd.Printf("Description: %s\n", p.Description)
	if len(p.Countries) > 0 {
		cmd.Printf("Countries:   %s\n", strings.Join(p.Countries, ", "))
	}
	return nil
}

func runServices(cmd *cobra.Command, _ []string) error {
	if serviceCatalog == nil {
		return errors.New("service catalog not configured")
	}

	cmd.Println("Services:")
	cmd.Println()
	for _, s := range serviceCatalog.Services() {
		cmd.Printf("  %-14s %-24s $%-7s %-16s %s\n", s.ID, s.Name, s.Price, s.DocumentType, s.Description)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	if countryResolver == nil || presetCatalog == nil {
		return errors.New("country resolver not configured")
	}

	id, ok := countryResolver.Resolve(args[0])
	if !ok {
		cmd.Printf("No preset found for %q.\n", args[0])
		return nil
	}

	size := presetCatalog.PixelDimensions(id)
	label := id
	if p, found := presetCatalog.Preset(id); found {
		label = p.Label
	}
	cmd.Printf("%s: %s (%s, %dx%d px)\n", args[0], id, label, size.Width, size.Height)
	return nil
}
