// Package cli implements the assistant's command line interface.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zraval/portfolio-assistant/internal/config"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string

	// cfg is the loaded application configuration, available to all
	// commands after the persistent pre-run.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Portfolio website assistant",
	Long: `An AI assistant for a portfolio website.

It indexes the site's knowledge document, answers visitor questions
from that knowledge, and optionally consults a hosted language model
for richer, cited answers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Local env files carry the GROQ_API_KEY during development.
		// Missing files are fine.
		_ = godotenv.Load(".env.local")
		_ = godotenv.Load(".env")

		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadDefault()
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Warn("command failed: %v", err)
		os.Exit(1)
	}
}
