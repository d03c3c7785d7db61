package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Print the quickpass version, the Go runtime it was built with and the
size of the built-in photo catalog.

Release builds set the version with:
  go build -ldflags "-X main.version=1.2.0" ./cmd/quickpass`,
	Annotations: map[string]string{annotationNoServices: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			cmd.Println(version)
			return
		}
		cmd.Printf("quickpass version %s\n", version)
		cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  presets:  %d document sizes\n", len(domain.DefaultSizePresets()))
		cmd.Printf("  services: %d photo products\n", len(domain.DefaultServices()))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}
