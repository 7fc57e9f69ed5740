package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docpipe/internal/config"
	"docpipe/internal/logger"
	"docpipe/pkg/logging"
)

var (
	configFile string
	inputFile  string
	outputFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docpipe",
		Short: "Document mutation pipeline",
		Long:  "docpipe runs a processor pipeline over newline-delimited JSON documents",
		RunE:  runCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")
	rootCmd.PersistentFlags().StringVar(&inputFile, "input", "", "Input NDJSON file (defaults to stdin)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output", "", "Output NDJSON file (defaults to stdout)")

	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over an NDJSON stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logging.NewEarlyLog()

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
				if configFile == "" {
					earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
					return fmt.Errorf("config file is required")
				}
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			log, err := logger.New(cfg.Logging.Level)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.Infow("Starting docpipe")

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.Fatalf("Failed to initialize application: %v", err)
			}

			if err := app.Run(ctx, inputFile, outputFile); err != nil && err != context.Canceled {
				log.Errorw("Run stopped with error", "error", err)
				return err
			}

			if err := app.Shutdown(ctx); err != nil {
				log.Warnw("Shutdown error", "error", err)
			}
			log.Infow("Shutdown complete")
			return nil
		},
	}
}
