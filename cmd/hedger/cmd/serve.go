package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/hedger/api"
	"github.com/rustyeddy/hedger/monitor"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve pricing and simulations over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  GET  /health
  GET  /metrics
  POST /api/v1/price
  POST /api/v1/simulate

Example:
  hedger serve --addr :8080`,
	RunE: runServe,
}

var (
	serveConfigPath string
	serveAddr       string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "file", "f", "", "path to config file (YAML or JSON)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	log, done, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer done()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(cfg, monitor.New(cfg.Metrics), log)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
