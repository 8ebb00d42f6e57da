// Package config defines geogate's configuration model and HCL loader.
//
// Configuration is resolved once at startup: built-in defaults, overridden
// by the config file if one exists. The resolved Config is passed to the
// reconciler at construction and never mutated afterwards.
package config

import (
	"strings"
	"time"
)

// CurrentSchemaVersion defines the current schema version of the configuration.
const CurrentSchemaVersion = "1.0"

// Config is the top-level geogate configuration.
type Config struct {
	// Schema version for forward compatibility (e.g., "1.0").
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty"`

	// Country is the ISO 3166-1 alpha-2 code whose ranges are allowed in.
	Country string `hcl:"country,optional" json:"country"`

	// SourceURL is the range list URL template. The literal "{country}"
	// is replaced with the lowercased country code.
	SourceURL string `hcl:"source_url,optional" json:"source_url"`

	// LocalNetworks are CIDR ranges that are always allowed. Entries may
	// themselves be comma- or space-separated lists; they are split during
	// normalization.
	LocalNetworks []string `hcl:"local_networks,optional" json:"local_networks"`

	SSH     *SSHConfig     `hcl:"ssh,block" json:"ssh,omitempty"`
	Tags    *TagsConfig    `hcl:"tags,block" json:"tags,omitempty"`
	Sync    *SyncConfig    `hcl:"sync,block" json:"sync,omitempty"`
	Metrics *MetricsConfig `hcl:"metrics,block" json:"metrics,omitempty"`
	Log     *LogConfig     `hcl:"log,block" json:"log,omitempty"`
}

// SSHConfig describes the always-allowed SSH service.
type SSHConfig struct {
	Port     int    `hcl:"port,optional" json:"port"`
	Protocol string `hcl:"protocol,optional" json:"protocol"`
}

// TagsConfig holds the rule comment tags that mark managed rules.
type TagsConfig struct {
	Country  string `hcl:"country,optional" json:"country"`
	Local    string `hcl:"local,optional" json:"local"`
	Loopback string `hcl:"loopback,optional" json:"loopback"`
	SSH      string `hcl:"ssh,optional" json:"ssh"`
}

// SyncConfig controls daemon-mode scheduling and the list download.
type SyncConfig struct {
	// Interval between update runs (Go duration string). Ignored when
	// Cron is set.
	Interval string `hcl:"interval,optional" json:"interval"`

	// Cron is an optional five-field cron expression.
	Cron string `hcl:"cron,optional" json:"cron,omitempty"`

	// RunOnStart triggers an update immediately when the daemon starts.
	RunOnStart bool `hcl:"run_on_start,optional" json:"run_on_start"`

	// FetchTimeout bounds the list download (Go duration string).
	FetchTimeout string `hcl:"fetch_timeout,optional" json:"fetch_timeout"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `hcl:"enabled,optional" json:"enabled"`
	Listen  string `hcl:"listen,optional" json:"listen"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `hcl:"level,optional" json:"level"`
	JSON  bool   `hcl:"json,optional" json:"json"`
}

// FetchURL returns the source URL with the country placeholder substituted.
func (c *Config) FetchURL() string {
	return strings.ReplaceAll(c.SourceURL, "{country}", strings.ToLower(c.Country))
}

// Interval returns the parsed sync interval.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.Sync.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// FetchTimeout returns the parsed fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Sync.FetchTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// normalize splits compound local_networks entries and deduplicates them,
// preserving first-seen order.
func (c *Config) normalize() {
	seen := make(map[string]bool)
	var nets []string
	for _, entry := range c.LocalNetworks {
		for _, part := range strings.FieldsFunc(entry, func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			part = strings.TrimSpace(part)
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			nets = append(nets, part)
		}
	}
	c.LocalNetworks = nets
}
