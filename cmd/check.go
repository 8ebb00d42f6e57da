package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/netfence/geogate/internal/config"
)

// RunCheck validates a configuration file and prints a summary. It never
// touches the firewall, so it is safe to run as any user.
func RunCheck(configFile string, verbose bool) error {
	info, err := os.Stat(configFile)
	if os.IsNotExist(err) {
		fmt.Printf("Config file %s not found; built-in defaults would be used.\n", configFile)
		fmt.Println("Note: defaults have no country set, so a real run would fail validation.")
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a config file", configFile)
	}

	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Printf("Configuration OK: %s\n", configFile)
	fmt.Printf("  Country:        %s\n", strings.ToUpper(cfg.Country))
	fmt.Printf("  Source URL:     %s\n", cfg.FetchURL())
	fmt.Printf("  Local networks: %d\n", len(cfg.LocalNetworks))
	fmt.Printf("  SSH:            %d/%s\n", cfg.SSH.Port, cfg.SSH.Protocol)

	if verbose {
		for _, n := range cfg.LocalNetworks {
			fmt.Printf("    local: %s\n", n)
		}
		fmt.Printf("  Tags:           country=%s local=%s loopback=%s ssh=%s\n",
			cfg.Tags.Country, cfg.Tags.Local, cfg.Tags.Loopback, cfg.Tags.SSH)
		fmt.Printf("  Sync interval:  %s (run_on_start=%t", cfg.Interval(), cfg.Sync.RunOnStart)
		if cfg.Sync.Cron != "" {
			fmt.Printf(", cron=%q", cfg.Sync.Cron)
		}
		fmt.Println(")")
		fmt.Printf("  Fetch timeout:  %s\n", cfg.FetchTimeout())
		if cfg.Metrics.Enabled {
			fmt.Printf("  Metrics:        %s\n", cfg.Metrics.Listen)
		} else {
			fmt.Println("  Metrics:        disabled")
		}
	}

	return nil
}
