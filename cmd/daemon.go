package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/netfence/geogate/internal/geosync"
	"github.com/netfence/geogate/internal/metrics"
)

// RunDaemon runs geogate in the foreground, syncing on the configured
// schedule until SIGINT or SIGTERM.
func RunDaemon(configFile string, dryRun bool) error {
	cfg, log, err := setup(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fw, err := buildClient(dryRun)
	if err != nil {
		return err
	}

	fetcher := geosync.NewFetcher(cfg.FetchTimeout())
	rec := geosync.New(fw, fetcher, cfg, log)
	svc := geosync.NewService(rec, cfg, log)

	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(cfg.Metrics.Listen)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				log.Error("metrics server failed", "listen", cfg.Metrics.Listen, "error", err)
			}
		}()
		log.Info("metrics endpoint enabled", "listen", cfg.Metrics.Listen)
	}

	if err := svc.Start(); err != nil {
		return err
	}

	log.Info("daemon running", "country", cfg.Country, "dry_run", dryRun)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutting down", "signal", sig.String())

	svc.Stop()

	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Stop(ctx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}

	return nil
}
