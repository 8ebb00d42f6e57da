// Package cmd implements the geogate subcommands. main.go parses flags
// and delegates here; these functions own process setup, preflight
// checks, and exit semantics.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/netfence/geogate/internal/config"
	"github.com/netfence/geogate/internal/firewall"
	"github.com/netfence/geogate/internal/geosync"
	"github.com/netfence/geogate/internal/logging"
)

// RunInit performs a first-run sync: static rules plus country rules,
// never deleting anything already present.
func RunInit(configFile string, dryRun bool) error {
	return runSync(configFile, dryRun, geosync.ModeInit)
}

// RunUpdate performs a refresh sync: purge previously tagged country
// rules, then re-add from a fresh download.
func RunUpdate(configFile string, dryRun bool) error {
	return runSync(configFile, dryRun, geosync.ModeUpdate)
}

// runSync is the shared one-shot sync path. Preflight failures (bad
// config, missing tool, not root) return an error; per-rule failures and
// a failed download are reported in the summary and do not.
func runSync(configFile string, dryRun bool, mode geosync.Mode) error {
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

	rep, err := rec.Run(context.Background(), mode)
	if err != nil {
		return err
	}

	fmt.Println(rep.String())
	if rep.FetchFailed {
		fmt.Println("warning: range list download failed; no country rules were added this run")
	}
	if dryRun {
		status, _ := fw.Status()
		fmt.Printf("dry run, nothing applied (%s)\n", status)
	}
	return nil
}

// setup loads configuration and installs the process logger.
func setup(configFile string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadFileIfExists(configFile)
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(logging.Config{
		Level: logging.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	logging.SetDefault(log)

	return cfg, log, nil
}

// buildClient returns the firewall client for this invocation. Dry runs
// get an empty in-memory client so every mutation is a no-op against the
// live firewall; real runs require root and an installed ufw.
func buildClient(dryRun bool) (firewall.Client, error) {
	if dryRun {
		return firewall.NewMemoryClient(), nil
	}
	if os.Geteuid() != 0 {
		return nil, fmt.Errorf("must run as root to modify firewall rules")
	}
	if err := firewall.Available(); err != nil {
		return nil, err
	}
	return firewall.NewUFW(nil), nil
}
