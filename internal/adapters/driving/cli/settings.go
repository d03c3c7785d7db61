package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure rendering, storage and inbox settings.

Use subcommands to change a single key or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting by its config key, for example:

  quickpass settings set render.jpeg_quality 85
  quickpass settings set storage.backend redis

Run 'quickpass settings keys' to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List config keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose where records and images are stored.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Render]")
	cmd.Printf("  JPEG quality: %d\n", settings.Render.JPEGQuality)
	cmd.Printf("  Max source pixels: %d\n", settings.Render.MaxSourcePixels)
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  Analysis delay: %s\n", settings.Session.AnalysisDelay)
	cmd.Printf("  Payment delay: %s\n", settings.Session.PaymentDelay)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	switch settings.Storage.Backend {
	case domain.StorageSQLite:
		cmd.Printf("  Data dir: %s\n", orDefault(settings.Storage.DataDir, "(default)"))
	case domain.StorageRedis:
		cmd.Printf("  Redis: %s db %d\n", settings.Storage.RedisAddr, settings.Storage.RedisDB)
	}
	cmd.Printf("  Max record bytes: %d\n", settings.Storage.MaxRecordBytes)
	cmd.Println()

	cmd.Println("[Images]")
	cmd.Printf("  Backend: %s\n", settings.Images.Backend)
	switch settings.Images.Backend {
	case domain.ImagesFilesystem:
		cmd.Printf("  Dir: %s\n", orDefault(settings.Images.Dir, "(default)"))
	case domain.ImagesS3:
		cmd.Printf("  Endpoint: %s\n", orDefault(settings.Images.S3Endpoint, "(aws)"))
		cmd.Printf("  Bucket: %s\n", settings.Images.S3Bucket)
		cmd.Printf("  Region: %s\n", settings.Images.S3Region)
		if settings.Images.S3AccessKeyID != "" {
			cmd.Printf("  Access key: %s\n", maskAPIKey(settings.Images.S3AccessKeyID))
		} else {
			cmd.Printf("  Access key: (default chain)\n")
		}
		if settings.Images.S3SecretAccessKey != "" {
			cmd.Printf("  Secret key: %s\n", maskAPIKey(settings.Images.S3SecretAccessKey))
		}
	}
	cmd.Println()

	cmd.Println("[Inbox]")
	cmd.Printf("  Service: %s\n", settings.Inbox.ServiceID)
	cmd.Printf("  Country: %s\n", orDefault(settings.Inbox.Country, "(none)"))
	cmd.Println()

	cmd.Printf("Log format: %s\n", settings.LogFormat)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'quickpass settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("QuickPass Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Step 1: Where should carts and orders be stored?")
	cmd.Println("------------------------------------------------")
	backends := []domain.StorageBackend{domain.StorageSQLite, domain.StorageRedis, domain.StorageMemory}
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Print("\nEnter choice [1]: ")
	settings.Storage.Backend = backends[parseChoice(readLine(reader), len(backends), 1)-1]
	if settings.Storage.Backend == domain.StorageRedis {
		cmd.Printf("Redis address [%s]: ", settings.Storage.RedisAddr)
		settings.Storage.RedisAddr = orDefault(readLine(reader), settings.Storage.RedisAddr)
	}
	cmd.Println()

	cmd.Println("Step 2: Where should rendered photos be kept?")
	cmd.Println("---------------------------------------------")
	images := []domain.ImageBackend{domain.ImagesInline, domain.ImagesFilesystem, domain.ImagesS3}
	for i, b := range images {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Print("\nEnter choice [1]: ")
	settings.Images.Backend = images[parseChoice(readLine(reader), len(images), 1)-1]
	if settings.Images.Backend == domain.ImagesS3 {
		if err := configureS3(cmd, reader, &settings.Images); err != nil {
			return err
		}
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("Settings saved. They take effect on the next run.")
	return nil
}

func configureS3(cmd *cobra.Command, reader *bufio.Reader, images *domain.ImageSettings) error {
	cmd.Print("Endpoint (blank for AWS): ")
	images.S3Endpoint = readLine(reader)

	cmd.Print("Bucket: ")
	images.S3Bucket = readLine(reader)
	if images.S3Bucket == "" {
		return errors.New("a bucket is required for S3 storage")
	}

	cmd.Printf("Region [%s]: ", images.S3Region)
	images.S3Region = orDefault(readLine(reader), images.S3Region)

	cmd.Print("Access key ID (blank for the default credential chain): ")
	images.S3AccessKeyID = readLine(reader)
	if images.S3AccessKeyID != "" {
		cmd.Print("Secret access key: ")
		images.S3SecretAccessKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if images.S3SecretAccessKey == "" {
			return errors.New("a secret key is required with an access key")
		}
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, falling back to a plain line.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
