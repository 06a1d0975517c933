package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"eventlog/internal/config"
	"eventlog/pkg/logger"
	"eventlog/pkg/models"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Record a sample group and print its timing table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runDemo(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

// demoSteps are recorded in order with a pause after each
var demoSteps = []struct {
	id    string
	level models.Severity
	data  any
	pause time.Duration
}{
	{id: "boot:start", level: models.LevelLog, data: "process started", pause: 15 * time.Millisecond},
	{id: "boot:config", level: models.LevelLog, data: map[string]string{"source": "defaults"}, pause: 5 * time.Millisecond},
	{id: "boot:cache", level: models.LevelWarn, data: "cache cold", pause: 10 * time.Millisecond},
	{id: "boot:ready", level: models.LevelLog, data: "accepting requests"},
	{id: "boot:ready", level: models.LevelLog, data: "duplicate on purpose"},
}

func runDemo(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := cfg.Logging.NewLogger(os.Stderr)
	events, err := newEventLogger(cfg, log, nil, out)
	if err != nil {
		return err
	}
	defer events.Close()

	events.Listen(models.ForGroup(models.DiagnosticGroup), func(e models.LogEvent) {
		fmt.Fprintf(out, "listener: %s %v\n", e.Key(), e.Data)
	})

	for _, s := range demoSteps {
		if err := record(events, s.level, models.Options{ID: s.id, Data: s.data}); err != nil {
			return err
		}
		time.Sleep(s.pause)
	}
	if err := events.Flush(ctx); err != nil {
		return err
	}

	if err := events.ShowGroup("boot"); err != nil {
		return err
	}
	diff, err := events.GetDifference("boot:ready", "boot:start")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "boot:start -> boot:ready took %s\n", diff)
	return nil
}

func record(l *logger.Logger, level models.Severity, opts models.Options) error {
	switch level {
	case models.LevelWarn:
		return l.Warn(opts)
	case models.LevelError:
		return l.Error(opts)
	default:
		return l.Log(opts)
	}
}
