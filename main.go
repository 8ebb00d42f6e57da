package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/netfence/geogate/cmd"
	"github.com/netfence/geogate/internal/brand"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		// First run: add static + country rules, delete nothing
		initFlags := flag.NewFlagSet("init", flag.ExitOnError)
		configFile := initFlags.String("config", brand.DefaultConfigFile(), "Configuration file")
		initFlags.StringVar(configFile, "c", brand.DefaultConfigFile(), "Configuration file (short)")

		dryRun := initFlags.Bool("dry-run", false, "Dry run - compute rules without applying")
		initFlags.BoolVar(dryRun, "n", false, "Dry run (short)")

		initFlags.Parse(os.Args[2:])

		if err := cmd.RunInit(*configFile, *dryRun); err != nil {
			fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
			os.Exit(1)
		}

	case "update":
		// Steady state: purge tagged country rules, re-add from fresh list
		updateFlags := flag.NewFlagSet("update", flag.ExitOnError)
		configFile := updateFlags.String("config", brand.DefaultConfigFile(), "Configuration file")
		updateFlags.StringVar(configFile, "c", brand.DefaultConfigFile(), "Configuration file (short)")

		dryRun := updateFlags.Bool("dry-run", false, "Dry run - compute rules without applying")
		updateFlags.BoolVar(dryRun, "n", false, "Dry run (short)")

		updateFlags.Parse(os.Args[2:])

		if err := cmd.RunUpdate(*configFile, *dryRun); err != nil {
			fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
			os.Exit(1)
		}

	case "daemon":
		daemonFlags := flag.NewFlagSet("daemon", flag.ExitOnError)
		configFile := daemonFlags.String("config", brand.DefaultConfigFile(), "Configuration file")
		daemonFlags.StringVar(configFile, "c", brand.DefaultConfigFile(), "Configuration file (short)")

		dryRun := daemonFlags.Bool("dry-run", false, "Dry run - compute rules without applying")
		daemonFlags.BoolVar(dryRun, "n", false, "Dry run (short)")

		daemonFlags.Parse(os.Args[2:])

		if err := cmd.RunDaemon(*configFile, *dryRun); err != nil {
			fmt.Fprintf(os.Stderr, "Daemon failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Verbose output")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := brand.DefaultConfigFile()
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "status":
		statusFlags := flag.NewFlagSet("status", flag.ExitOnError)
		configFile := statusFlags.String("config", brand.DefaultConfigFile(), "Configuration file")
		statusFlags.StringVar(configFile, "c", brand.DefaultConfigFile(), "Configuration file (short)")
		statusFlags.Parse(os.Args[2:])

		if err := cmd.RunStatus(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("%s version %s\n", brand.Name, brand.Version)
		fmt.Printf("Build: %s\n", brand.BuildTime)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  init      First-time setup: allow loopback, local networks, SSH, and
            the configured country's ranges. Deletes nothing.
            Options: --config (-c) <file>, --dry-run (-n)
  update    Refresh: purge previously added country rules and re-add
            them from a fresh download. Static rules are kept.
            Options: --config (-c) <file>, --dry-run (-n)
  daemon    Run in the foreground, updating on the configured schedule.
            Options: --config (-c) <file>, --dry-run (-n)
  check     Validate a configuration file
            Options: --verbose (-v)
  status    Show firewall status and managed rule counts
            Options: --config (-c) <file>
  version   Print version information

Examples:
  %s init                            # First run on a fresh host
  %s update                          # Cron-driven refresh
  %s update --dry-run                # Show what a refresh would do
  %s check -v /etc/geogate/geogate.hcl
  %s daemon --config /etc/geogate/geogate.hcl
`,
		brand.Name, brand.Description,
		brand.LowerName,
		brand.LowerName, brand.LowerName, brand.LowerName, brand.LowerName, brand.LowerName)
}
