package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/periscan/periscan/internal/api"
	"github.com/periscan/periscan/internal/config"
	"github.com/periscan/periscan/internal/home"
	"github.com/periscan/periscan/internal/server"
)

var analyzeKeepArtifacts bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Analyze an appraisal PDF locally",
	Long: `Analyze a perizia PDF without a running server and print the report.

The full pipeline runs in-process: text extraction, quality
classification, vision-OCR escalation when the text layer is unusable,
and field extraction for prior acts, outstanding costs, building
irregularities and the expert's valuation.

Examples:
  periscan analyze perizia.pdf
  periscan analyze perizia.pdf -o json > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if analyzeKeepArtifacts {
			cfg.Render.KeepArtifacts = true
		}

		pipeline := server.BuildPipeline(cfg, h, logger)
		report, err := pipeline.Analyze(cmd.Context(), data)
		if err != nil {
			return err
		}

		return api.Output(report)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeKeepArtifacts, "keep-artifacts", false,
		"Keep rendered page images under the home directory for inspection")

	rootCmd.AddCommand(analyzeCmd)
}
