package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/chrisdamba/kioskorder/internal/kiosk"
	"github.com/chrisdamba/kioskorder/internal/logger"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "kioskorder",
	Short: "Self-service breakfast ordering kiosk",
	Long: `kioskorder drives a hotel breakfast kiosk against an ordering backend: log in,
browse the menu, price a cart with coupons and GST, and place orders for a table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if err := logger.SetupLogging(loaded.Logging); err != nil {
			return err
		}
		if used := viper.ConfigFileUsed(); used != "" {
			log.WithField("file", used).Debug("using config file")
		}
		cfg = loaded
		return nil
	},
}

func init() {
	cobra.OnInitialize(loadEnv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kioskorder.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "ordering backend base URL")
	rootCmd.PersistentFlags().String("session-dir", "", "directory holding the cached session")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "log file, rotated (default stderr)")

	bindFlag("api.base_url", "api-url")
	bindFlag("session.dir", "session-dir")
	bindFlag("logging.level", "log-level")
	bindFlag("logging.file", "log-file")
}

func bindFlag(key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
}

// loadEnv reads a .env file outside production.
func loadEnv() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

// userError reports err the way the kiosk would show it, keeping the detail
// in the debug log.
func userError(err error) error {
	log.WithError(err).Debug("command failed")
	var line *lineError
	if errors.As(err, &line) {
		return fmt.Errorf("line %d: %s", line.line, kiosk.Message(line.err))
	}
	return errors.New(kiosk.Message(err))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
