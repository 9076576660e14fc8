package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/buildply/intake/internal/cli"
	"github.com/buildply/intake/internal/config"
	"github.com/buildply/intake/internal/extract"
	"github.com/buildply/intake/internal/home"
	"github.com/buildply/intake/internal/metrics"
	"github.com/buildply/intake/internal/sink"
	"github.com/buildply/intake/internal/source"
)

var (
	extractProvider string
	extractOutPath  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <input-file>",
	Short: "Extract material orders from a file of free-text requests",
	Long: `Extract structured material orders from free-text requests.

The input file holds one request per line; blank lines and lines
starting with '#' are skipped. Each request is sent to the configured
LLM provider and the result is appended to the output file as a JSON
line as soon as it completes, so a crash or interrupt loses at most
the in-flight record.

Requests that fail after all retry attempts still produce a record:
the fallback has every field null, urgency low, and an error marker.

Examples:
  intake extract requests.txt
  intake extract requests.txt --provider openrouter
  intake extract requests.txt --out /tmp/orders.jsonl -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config, preferring the home config file when present
		file := cfgFile
		if file == "" && h.ConfigExists() {
			file = h.ConfigPath()
		}
		mgr, err := config.NewManager(file)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		// Resolve the provider
		registry, err := cfg.BuildRegistry()
		if err != nil {
			return err
		}
		registry.SetLogger(logger)

		providerName := extractProvider
		if providerName == "" {
			providerName = cfg.Defaults.Provider
		}
		client, err := registry.GetLLM(providerName)
		if err != nil {
			return err
		}

		// Load inputs
		inputs, err := source.Load(args[0])
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no inputs found in %s", args[0])
		}

		// Open the output sink
		outPath := extractOutPath
		if outPath == "" {
			outPath = cfg.Output.Path
		}
		if outPath == "" {
			outPath = h.DefaultOutputPath()
		}
		recordSink, err := sink.NewFile(outPath)
		if err != nil {
			return err
		}
		defer recordSink.Close()

		logger.Info("starting extraction",
			"inputs", len(inputs),
			"provider", providerName,
			"output", outPath)

		recorder := metrics.NewRecorder()
		extractor := extract.New(client, extract.Options{
			MaxAttempts:   cfg.Extraction.MaxAttempts,
			RetryDelay:    time.Duration(cfg.Extraction.RetryDelaySecs) * time.Second,
			DeadlineFirst: cfg.Extraction.DeadlineFirst,
			Logger:        logger,
			Usage:         recorder,
		})
		runner := extract.NewRunner(extractor, recordSink, logger)

		// Config edits during a long batch retune the extraction knobs
		// from the next input on. Provider clients are built once.
		mgr.OnChange(func(next *config.Config) {
			extractor.Reconfigure(extract.Options{
				MaxAttempts:   next.Extraction.MaxAttempts,
				RetryDelay:    time.Duration(next.Extraction.RetryDelaySecs) * time.Second,
				DeadlineFirst: next.Extraction.DeadlineFirst,
			})
			logger.Info("config reloaded",
				"max_attempts", next.Extraction.MaxAttempts,
				"deadline_first", next.Extraction.DeadlineFirst)
		})
		mgr.WatchConfig()

		summary, runErr := runner.Run(ctx, inputs)

		report := struct {
			extract.Summary `yaml:",inline"`
			Usage           metrics.Usage `json:"usage" yaml:"usage"`
		}{summary, recorder.Total()}
		if err := cli.Output(report); err != nil {
			return err
		}
		return runErr
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractProvider, "provider", "", "LLM provider to use (default: from config)")
	extractCmd.Flags().StringVar(&extractOutPath, "out", "", "output JSONL path (default: from config or ~/.intake/outputs/orders.jsonl)")

	rootCmd.AddCommand(extractCmd)
}
