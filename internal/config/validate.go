package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/netfence/geogate/internal/validation"
)

// Validate checks the resolved configuration for fatal problems. Invalid
// local_networks entries are not fatal here: the reconciler skips them with
// a warning, matching the per-entry recovery policy.
func (c *Config) Validate() error {
	if c.Country == "" {
		return fmt.Errorf("country is required")
	}
	if err := validation.ValidateCountryCode(c.Country); err != nil {
		return err
	}

	if c.SourceURL == "" {
		return fmt.Errorf("source_url is required")
	}
	if !strings.Contains(c.SourceURL, "{country}") {
		return fmt.Errorf("source_url must contain the {country} placeholder")
	}

	if err := validation.ValidatePortNumber(c.SSH.Port); err != nil {
		return fmt.Errorf("ssh: %w", err)
	}
	if err := validation.ValidateProtocol(c.SSH.Protocol); err != nil {
		return fmt.Errorf("ssh: %w", err)
	}

	for name, tag := range map[string]string{
		"tags.country":  c.Tags.Country,
		"tags.local":    c.Tags.Local,
		"tags.loopback": c.Tags.Loopback,
		"tags.ssh":      c.Tags.SSH,
	} {
		if err := validation.ValidateTag(tag); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	// The four tags must be distinct or purge would eat static rules.
	tags := []string{c.Tags.Country, c.Tags.Local, c.Tags.Loopback, c.Tags.SSH}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			return fmt.Errorf("duplicate rule tag: %s", tag)
		}
		seen[tag] = true
	}

	if _, err := time.ParseDuration(c.Sync.Interval); err != nil {
		return fmt.Errorf("sync.interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Sync.FetchTimeout); err != nil {
		return fmt.Errorf("sync.fetch_timeout: %w", err)
	}

	return nil
}
