package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"eventlog/internal/api"
	"eventlog/internal/ingestion"
	"eventlog/internal/metrics"
	"eventlog/pkg/models"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := cfg.Logging.NewLogger(os.Stderr)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	events, err := newEventLogger(cfg, log, m, os.Stdout)
	if err != nil {
		return err
	}
	defer events.Close()

	// surface errors, including store diagnostics, in the service log
	events.Listen(models.AtLeast(models.LevelError), func(e models.LogEvent) {
		log.WithFields(logrus.Fields{
			"key":  e.Key(),
			"data": e.Data,
		}).Warn("error event recorded")
	})

	ingestor := ingestion.NewIngestor(events, cfg.Ingest.BufferSize, log)
	ingestor.Start()
	defer ingestor.Stop()

	routerCfg := &api.RouterConfig{
		Handler: api.NewHandler(events, ingestor, log),
		Logger:  log,
	}
	if m != nil {
		routerCfg.Metrics = m.Handler()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("eventlog listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
