package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	collide "github.com/jonathanmweiss/go-collide"
	"github.com/jonathanmweiss/go-collide/internal/config"
	"github.com/jonathanmweiss/go-collide/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "collide",
	Short: "Search for primes dividing power sums and Chebyshev quotients",
	Long: `collide evaluates, for every configured prime index n, a power sum or a quotient of
Chebyshev polynomials at a fixed integer x, then lists every prime p in [(n-1)^2, upper]
dividing the value.`,
	SilenceUsage: true,
	RunE:         runSearch,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	RunE:  showConfig,
}

var (
	configPath string
	writePath  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "collide.yaml", "Configuration file path")
	flags.Int("workers", 0, "Candidates scanned concurrently (0 = one per CPU)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("verbose", false, "Verbose output")
	flags.Uint64("heartbeat", 0, "Primes between two progress lines")

	_ = viper.BindPFlag("run.workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("run.heartbeat", flags.Lookup("heartbeat"))

	configCmd.Flags().StringVar(&writePath, "write", "", "Save the configuration to this file instead")
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(viper.GetViper(), configPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batches := cfg.SearchBatches()

	prms, err := collide.NewSearchParams(cfg.Workers(), cfg.Run.Heartbeat, collide.NewLogReporter(logger, uniformStrategy(batches)))
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"config":  configPath,
		"batches": len(batches),
		"workers": prms.Workers(),
	}).Info("search starting")

	start := time.Now()
	report, err := collide.NewSearch(prms, logger).Run(ctx, batches...)
	summarize(logger, report, time.Since(start))

	if errors.Is(err, context.Canceled) {
		logger.Warn("search interrupted")
	}

	return err
}

// uniformStrategy is the strategy shared by all batches, or empty when they mix.
func uniformStrategy(batches []collide.Batch) collide.StrategyKind {
	if len(batches) == 0 {
		return ""
	}

	kind := batches[0].Strategy
	for _, b := range batches[1:] {
		if b.Strategy != kind {
			return ""
		}
	}

	return kind
}

func summarize(logger *logrus.Logger, report *collide.Report, elapsed time.Duration) {
	if report == nil {
		return
	}

	logger.WithFields(logrus.Fields{
		"candidates": len(report.Results),
		"failures":   len(report.Failures),
		"collisions": len(report.Collisions()),
		"elapsed":    elapsed.Round(time.Millisecond),
	}).Info("search finished")
}

func showConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(viper.GetViper(), configPath)
	if err != nil {
		return err
	}

	if writePath != "" {
		if err := cfg.Write(writePath); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", writePath)

		return nil
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
