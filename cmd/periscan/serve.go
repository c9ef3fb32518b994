package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/periscan/periscan/internal/config"
	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the periscan server",
	Long: `Start the periscan HTTP API server.

The server provides:
  - POST /api/documents/analyze                          - Analyze a perizia PDF
  - GET  /api/documents/{doc_id}/pages/{page}/image      - Debug render retrieval
  - GET  /health                                         - Server health check

Configuration is hot-reloaded: provider settings changed in the config
file apply to the next document analyzed without a restart.

Examples:
  periscan serve                    # Start on the configured address
  periscan serve --addr :3000       # Start on a custom address`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		path := cfgFile
		if path == "" {
			path = h.ConfigPath()
			if err := config.WriteDefault(path); err != nil {
				return err
			}
		}
		cm, err := config.NewManager(path)
		if err != nil {
			return err
		}
		cm.WatchConfig()

		srv, err := server.New(server.Config{
			Addr:          serveAddr,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
