package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/tui"
	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
)

var (
	editService string
	editCountry string
)

var editCmd = &cobra.Command{
	Use:   "edit [image]",
	Short: "Open the interactive photo editor",
	Long: `Opens the full-screen editor for a photo. Adjust the crop, type a
country to pick the size and approve to add the photo to the cart.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editService, "service", "s", "", "service to start with")
	editCmd.Flags().StringVarP(&editCountry, "country", "c", "", "country used to pick the size")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the editor needs an interactive terminal; use 'quickpass add' instead")
	}
	if wired.NewSession == nil || wired.Decode == nil {
		return errors.New("editor not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAcquisition, err)
	}

	notifier := tui.NewNotifier()
	session, err := wired.NewSession(notifier.Notify)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	if err := loadEditSession(session, data); err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(session, presetCatalog, serviceCatalog, cartService))
	if err != nil {
		return err
	}
	return app.WithContext(cmd.Context()).WithNotifier(notifier).Run()
}

// loadEditSession prepares a session the way the capture screen would.
func loadEditSession(session driving.SessionController, data []byte) error {
	if editService != "" {
		if err := session.SelectService(editService); err != nil {
			return err
		}
	}

	session.BeginCapture(domain.CaptureUpload)
	src, err := wired.Decode(data, domain.CaptureUpload)
	if err != nil {
		return session.AcquisitionFailed(err)
	}
	if err := session.SetSource(src); err != nil {
		return err
	}

	if editCountry != "" {
		session.SetCountryQuery(editCountry)
	}
	return nil
}
