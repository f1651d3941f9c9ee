package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log the kiosk in and cache the menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("KIOSK_PASSWORD")
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		bar := progressbar.NewOptions(4,
			progressbar.OptionSetDescription("Loading menu"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		k := newKiosk()
		err := k.Login(cmd.Context(), email, password, func(step string) {
			bar.Describe("Loaded " + step)
			_ = bar.Add(1)
		})
		_ = bar.Finish()
		if err != nil {
			return userError(err)
		}

		snap, err := k.Catalog()
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome to %s. %d items across %d categories, %d tables.\n",
			k.Branding().RestaurantName, len(snap.Items), len(snap.Categories), len(snap.Tables))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newKiosk().Logout(); err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "kiosk account email")
	loginCmd.Flags().String("password", "", "kiosk account password (or KIOSK_PASSWORD)")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
