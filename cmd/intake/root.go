package main

import (
	"github.com/spf13/cobra"

	"github.com/buildply/intake/internal/cli"
	"github.com/buildply/intake/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Construction material order extraction powered by LLMs",
	Long: `Intake turns free-text material requests from construction sites
into structured order records using LLM extraction.

Each input line becomes one JSON record with a fixed set of fields
(material, quantity, unit, project, location, urgency, deadline).
Failed extractions produce a fallback record instead of halting the
batch, and every record is appended to the output file as soon as it
completes.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.intake/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "intake home directory (default: ~/.intake)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cli.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
