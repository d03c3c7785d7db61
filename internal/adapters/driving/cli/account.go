package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

var (
	loginName  string
	loginEmail string
	loginRole  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "", "display name")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	loginCmd.Flags().StringVar(&loginRole, "role", string(domain.RoleUser), "role (user or admin)")
	_ = loginCmd.MarkFlagRequired("name")
	_ = loginCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	save, err := accountService.Login(cmd.Context(), domain.User{
		Name:  loginName,
		Email: loginEmail,
		Role:  domain.UserRole(loginRole),
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	reportSave(cmd, save)

	cmd.Printf("Signed in as %s <%s>\n", loginName, loginEmail)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	reportSave(cmd, accountService.Logout(cmd.Context()))
	cmd.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if accountService == nil {
		return errors.New("account service not configured")
	}

	u := accountService.Current()
	if u == nil {
		cmd.Println("Not signed in.")
		return nil
	}
	cmd.Printf("%s <%s> (%s)\n", u.Name, u.Email, u.Role)
	return nil
}
