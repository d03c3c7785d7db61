package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickpass/internal/adapters/driving/inbox"
)

var (
	watchService string
	watchCountry string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Add photos dropped into a folder to the cart",
	Long: `Watches a folder and approves every new JPEG, PNG or WebP file with
the default framing. Files already in the folder are left alone.

The service and country default to the inbox settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchService, "service", "s", "", "service to add photos as")
	watchCmd.Flags().StringVarP(&watchCountry, "country", "c", "", "country used to pick the size")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if photoImporter == nil {
		return errors.New("photo importer not configured")
	}

	opts := inbox.Options{ServiceID: watchService, Country: watchCountry}
	if settingsService != nil && (opts.ServiceID == "" || opts.Country == "") {
		if settings, err := settingsService.Get(); err == nil {
			opts.ServiceID = orDefault(opts.ServiceID, settings.Inbox.ServiceID)
			opts.Country = orDefault(opts.Country, settings.Inbox.Country)
		}
	}
	if opts.ServiceID == "" {
		return errors.New("no service given; use --service or set inbox.service")
	}

	w, err := inbox.New(args[0], photoImporter, opts)
	if err != nil {
		return err
	}
	defer w.Close()

	results, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (%s). Press Ctrl+C to stop.\n", w.Dir(), opts.ServiceID)
	for res := range results {
		printWatchResult(cmd, res)
	}
	return nil
}

func printWatchResult(cmd *cobra.Command, res inbox.Result) {
	name := filepath.Base(res.Path)
	if res.Err != nil {
		cmd.PrintErrf("%s: %v\n", name, res.Err)
		return
	}
	reportSave(cmd, res.Import.Save)
	item := res.Import.Item
	cmd.Printf("%s: added %s (%s) for $%s\n", name, item.Name, item.SizeLabel, item.Price)
}
