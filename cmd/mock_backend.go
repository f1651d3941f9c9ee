package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/kioskorder/internal/mockserver"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve a fake ordering backend with a generated breakfast menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !log.IsLevelEnabled(log.DebugLevel) {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := mockserver.New(cfg.Mock)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"email":  cfg.Mock.Email,
			"items":  len(srv.Items()),
			"tables": len(srv.Tables()),
		}).Info("mock menu generated")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, cfg.Mock.ListenAddr)
	},
}

func init() {
	mockBackendCmd.Flags().String("addr", "", "listen address (default :8080)")
	mockBackendCmd.Flags().Int64("seed", 0, "menu generator seed")
	cobra.CheckErr(viper.BindPFlag("mock.listen_addr", mockBackendCmd.Flags().Lookup("addr")))
	cobra.CheckErr(viper.BindPFlag("mock.seed", mockBackendCmd.Flags().Lookup("seed")))
	rootCmd.AddCommand(mockBackendCmd)
}
