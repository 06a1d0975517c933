// Package cmd implements the eventlog command line.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"eventlog/internal/config"
	"eventlog/internal/metrics"
	"eventlog/internal/report"
	"eventlog/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "eventlog",
	Short: "Timestamped, grouped event logging",
	Long: `eventlog records timestamped events, mirrors them to the console,
keeps them for lookup and reports elapsed time within a group.

Examples:
  # run the HTTP API
  eventlog serve --addr :8080

  # record a sample group and print its timing table
  eventlog demo --format yaml`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("level", "", "console threshold: log, warn, error or none")
	rootCmd.PersistentFlags().String("match", "", "listener match policy: any or all")
	rootCmd.PersistentFlags().String("format", "", "group report format: table, json or yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
}

// loadConfig merges flags, environment and the config file
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	bindings := map[string]string{
		"level":           "level",
		"listeners.match": "match",
		"report.format":   "format",
		"server.addr":     "addr",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}
	return config.Read(v, cfgFile)
}

// newEventLogger builds a logger from configuration
func newEventLogger(cfg *config.Config, log *logrus.Logger, m *metrics.Metrics, out io.Writer) (*logger.Logger, error) {
	sev, err := cfg.Severity()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.MatchPolicy()
	if err != nil {
		return nil, err
	}
	renderer, err := report.NewRenderer(cfg.Report.Format, out)
	if err != nil {
		return nil, err
	}

	return logger.New(
		logger.WithLevel(sev),
		logger.WithMatchPolicy(policy),
		logger.WithColors(cfg.Colors),
		logger.WithRenderer(renderer),
		logger.WithMetrics(m),
		logger.WithLogrus(log),
	), nil
}
