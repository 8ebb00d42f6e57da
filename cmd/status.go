package cmd

import (
	"fmt"

	"github.com/netfence/geogate/internal/firewall"
)

// RunStatus prints the firewall status and a per-tag count of the rules
// geogate manages.
func RunStatus(configFile string) error {
	cfg, _, err := setup(configFile)
	if err != nil {
		return err
	}

	if err := firewall.Available(); err != nil {
		return err
	}
	fw := firewall.NewUFW(nil)

	status, err := fw.Status()
	if err != nil {
		return err
	}
	fmt.Print(status)

	rules, err := fw.Rules()
	if err != nil {
		return err
	}

	fmt.Println("\nManaged rules:")
	total := 0
	for _, tag := range []string{cfg.Tags.Country, cfg.Tags.Local, cfg.Tags.Loopback, cfg.Tags.SSH} {
		n := len(firewall.FilterByComment(rules, tag))
		total += n
		fmt.Printf("  %-20s %d\n", tag, n)
	}
	fmt.Printf("  %-20s %d\n", "total", total)

	return nil
}
