package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skywavefm/nowplaying/internal/app"
	"github.com/skywavefm/nowplaying/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the now-playing HTTP service",
	Long: `Starts the HTTP service: the JSON API for web clients, the
prometheus metrics endpoint, and the background refresher that keeps
every station's now-playing record warm.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Bool("no-refresh", false, "disable the background refresher")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if noRefresh, _ := cmd.Flags().GetBool("no-refresh"); noRefresh {
		cfg.Poll.RefreshEnabled = false
	}

	logger := logging.Default()
	logger.Info("Starting now-playing service", logging.Fields{
		"addr":     cfg.Server.Addr,
		"stations": viper.GetString("stations.file"),
	})

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}
