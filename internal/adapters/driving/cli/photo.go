package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

// photoFlags are the sizing and transform options shared by compose and add.
type photoFlags struct {
	service    string
	country    string
	preset     string
	zoom       float64
	rotate     float64
	brightness float64
	offsetX    float64
	offsetY    float64
}

func (f *photoFlags) register(fs *pflag.FlagSet) {
	def := domain.DefaultEditTransform()
	fs.StringVarP(&f.service, "service", "s", "", "service id (see 'quickpass services')")
	fs.StringVarP(&f.country, "country", "c", "", "country used to pick the photo size")
	fs.StringVarP(&f.preset, "preset", "p", "", "size preset id, overrides --country")
	fs.Float64Var(&f.zoom, "zoom", def.Zoom, "zoom factor (1-2)")
	fs.Float64Var(&f.rotate, "rotate", def.RotateDegrees, "rotation in degrees (-45 to 45)")
	fs.Float64Var(&f.brightness, "brightness", def.BrightnessPercent, "brightness percent (50-150)")
	fs.Float64Var(&f.offsetX, "offset-x", def.OffsetX, "horizontal offset in pixels (-200 to 200)")
	fs.Float64Var(&f.offsetY, "offset-y", def.OffsetY, "vertical offset in pixels (-200 to 200)")
}

// transform returns nil unless a transform flag was given.
func (f *photoFlags) transform(fs *pflag.FlagSet) *domain.EditTransform {
	changed := false
	for _, name := range []string{"zoom", "rotate", "brightness", "offset-x", "offset-y"} {
		if fs.Changed(name) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return &domain.EditTransform{
		Zoom:              f.zoom,
		RotateDegrees:     f.rotate,
		BrightnessPercent: f.brightness,
		OffsetX:           f.offsetX,
		OffsetY:           f.offsetY,
	}
}

var (
	composeFlags  photoFlags
	composeOutput string
	addFlags      photoFlags
)

var composeCmd = &cobra.Command{
	Use:   "compose [image]",
	Short: "Render a sized photo without adding it to the cart",
	Long: `Renders a JPEG, PNG or WebP portrait at the pixel size of a preset.
The size comes from --preset, else --country, else the default of --service.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompose,
}

var addCmd = &cobra.Command{
	Use:   "add [image]",
	Short: "Approve a photo into the cart",
	Long: `Renders a photo for a service and adds it to the cart at the service
price, exactly as approving it in the editor would.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	composeFlags.register(composeCmd.Flags())
	composeCmd.Flags().StringVarP(&composeOutput, "output", "o", "", "output file (default <preset>-quickpass.jpg)")
	rootCmd.AddCommand(composeCmd)

	addFlags.register(addCmd.Flags())
	_ = addCmd.MarkFlagRequired("service")
	rootCmd.AddCommand(addCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	if photoImporter == nil {
		return errors.New("photo importer not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAcquisition, err)
	}

	res, err := photoImporter.Render(cmd.Context(), driving.RenderRequest{
		Data:      data,
		ServiceID: composeFlags.service,
		Country:   composeFlags.country,
		PresetID:  composeFlags.preset,
		Transform: composeFlags.transform(cmd.Flags()),
	})
	if err != nil {
		return fmt.Errorf("compose failed: %w", err)
	}
	reportResolution(cmd, res.Resolution)

	out := composeOutput
	if out == "" {
		out = res.PresetID + "-quickpass.jpg"
	}
	if err := os.WriteFile(out, res.Image.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	cmd.Printf("Wrote %s (%dx%d, %s)\n", out, res.Image.Width, res.Image.Height, res.PresetID)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if photoImporter == nil {
		return errors.New("photo importer not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAcquisition, err)
	}

	res, err := photoImporter.Import(cmd.Context(), driving.ImportRequest{
		Data:      data,
		Mode:      domain.CaptureUpload,
		ServiceID: addFlags.service,
		Country:   addFlags.country,
		PresetID:  addFlags.preset,
		Transform: addFlags.transform(cmd.Flags()),
	})
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}
	reportResolution(cmd, res.Resolution)
	reportSave(cmd, res.Save)

	cmd.Printf("Added %s (%s) for $%s\n", res.Item.Name, res.Item.SizeLabel, res.Item.Price)
	return nil
}

func reportResolution(cmd *cobra.Command, r domain.CountryResolution) {
	if r.Query != "" && !r.Found {
		cmd.PrintErrf("note: no preset found for %q, keeping the default size\n", r.Query)
	}
}
