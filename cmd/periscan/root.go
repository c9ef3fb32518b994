package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/periscan/periscan/internal/api"
	"github.com/periscan/periscan/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "periscan",
	Short: "Field extraction for Italian judicial-auction appraisal PDFs",
	Long: `Periscan analyzes perizie (court-appointed expert appraisals) from
Italian real-estate auctions and extracts the fields buyers care about.

The pipeline includes:
  - Layered PDF text extraction with engine fallback
  - Text-layer quality classification
  - Vision-OCR escalation for scanned or watermarked documents
  - Keyword-driven section finding with confidence scoring
  - Extraction of prior acts, outstanding costs, building
    irregularities and the expert's valuation`,
	Version: version.GitRelease,
}

func init() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.periscan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "periscan home directory (default: ~/.periscan)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
