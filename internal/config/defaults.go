package config

// Default returns the built-in default configuration. Everything except
// the country code has a usable default; the country must come from the
// config file or the command line.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		SourceURL:     "https://www.ipdeny.com/ipblocks/data/countries/{country}.zone",
		SSH: &SSHConfig{
			Port:     22,
			Protocol: "tcp",
		},
		Tags: &TagsConfig{
			Country:  "geogate:country",
			Local:    "geogate:local",
			Loopback: "geogate:loopback",
			SSH:      "geogate:ssh",
		},
		Sync: &SyncConfig{
			Interval:     "24h",
			RunOnStart:   true,
			FetchTimeout: "30s",
		},
		Metrics: &MetricsConfig{
			Enabled: false,
			Listen:  ":9343",
		},
		Log: &LogConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills any fields the config file left unset.
func (c *Config) applyDefaults() {
	def := Default()

	if c.SchemaVersion == "" {
		c.SchemaVersion = def.SchemaVersion
	}
	if c.SourceURL == "" {
		c.SourceURL = def.SourceURL
	}

	if c.SSH == nil {
		c.SSH = def.SSH
	} else {
		if c.SSH.Port == 0 {
			c.SSH.Port = def.SSH.Port
		}
		if c.SSH.Protocol == "" {
			c.SSH.Protocol = def.SSH.Protocol
		}
	}

	if c.Tags == nil {
		c.Tags = def.Tags
	} else {
		if c.Tags.Country == "" {
			c.Tags.Country = def.Tags.Country
		}
		if c.Tags.Local == "" {
			c.Tags.Local = def.Tags.Local
		}
		if c.Tags.Loopback == "" {
			c.Tags.Loopback = def.Tags.Loopback
		}
		if c.Tags.SSH == "" {
			c.Tags.SSH = def.Tags.SSH
		}
	}

	if c.Sync == nil {
		c.Sync = def.Sync
	} else {
		if c.Sync.Interval == "" {
			c.Sync.Interval = def.Sync.Interval
		}
		if c.Sync.FetchTimeout == "" {
			c.Sync.FetchTimeout = def.Sync.FetchTimeout
		}
	}

	if c.Metrics == nil {
		c.Metrics = def.Metrics
	} else if c.Metrics.Listen == "" {
		c.Metrics.Listen = def.Metrics.Listen
	}

	if c.Log == nil {
		c.Log = def.Log
	} else if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
