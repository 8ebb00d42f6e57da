package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFullConfig(t *testing.T) {
	hcl := `
country        = "de"
source_url     = "https://example.test/lists/{country}.zone"
local_networks = ["192.168.0.0/16", "10.0.0.0/8"]

ssh {
  port     = 2222
  protocol = "tcp"
}

tags {
  country = "geo:country"
}

sync {
  interval      = "6h"
  run_on_start  = true
  fetch_timeout = "10s"
}

metrics {
  enabled = true
  listen  = ":9999"
}

log {
  level = "debug"
  json  = true
}
`
	cfg, err := Load([]byte(hcl), "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Country)
	assert.Equal(t, "https://example.test/lists/de.zone", cfg.FetchURL())
	assert.Equal(t, []string{"192.168.0.0/16", "10.0.0.0/8"}, cfg.LocalNetworks)
	assert.Equal(t, 2222, cfg.SSH.Port)

	// Overridden tag plus defaults for the rest.
	assert.Equal(t, "geo:country", cfg.Tags.Country)
	assert.Equal(t, "geogate:local", cfg.Tags.Local)
	assert.Equal(t, "geogate:loopback", cfg.Tags.Loopback)

	assert.Equal(t, "6h", cfg.Sync.Interval)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.Metrics.Listen)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadMinimalConfigGetsDefaults(t *testing.T) {
	cfg, err := Load([]byte(`country = "us"`), "test.hcl")
	require.NoError(t, err)

	assert.Equal(t, CurrentSchemaVersion, cfg.SchemaVersion)
	assert.Contains(t, cfg.SourceURL, "{country}")
	assert.Equal(t, "https://www.ipdeny.com/ipblocks/data/countries/us.zone", cfg.FetchURL())
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, "tcp", cfg.SSH.Protocol)
	assert.Equal(t, "geogate:country", cfg.Tags.Country)
	assert.Equal(t, "geogate:ssh", cfg.Tags.SSH)
	assert.Empty(t, cfg.LocalNetworks)
}

func TestLocalNetworkNormalization(t *testing.T) {
	hcl := `
country        = "de"
local_networks = ["10.0.0.0/8, 192.168.0.0/16", "172.16.0.0/12 10.0.0.0/8"]
`
	cfg, err := Load([]byte(hcl), "test.hcl")
	require.NoError(t, err)

	// Compound entries split, duplicates dropped, order preserved.
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16", "172.16.0.0/12"}, cfg.LocalNetworks)
}

func TestEnvInterpolation(t *testing.T) {
	t.Setenv("GEOGATE_TEST_COUNTRY", "fr")

	cfg, err := Load([]byte(`country = env("GEOGATE_TEST_COUNTRY")`), "test.hcl")
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Country)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		hcl  string
		want string
	}{
		{"missing country", ``, "country is required"},
		{"bad country", `country = "deu"`, "invalid country code"},
		{"bad ssh port", `country = "de"
ssh { port = 70000 }`, "port"},
		{"bad tag", `country = "de"
tags { country = "has space" }`, "tag"},
		{"duplicate tags", `country = "de"
tags {
  country = "same"
  local   = "same"
}`, "duplicate rule tag"},
		{"bad interval", `country = "de"
sync { interval = "often" }`, "sync.interval"},
		{"url without placeholder", `country = "de"
source_url = "https://example.test/de.zone"`, "{country}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.hcl), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFileIfExists(t *testing.T) {
	// Missing file falls back to defaults (country unset, caller validates
	// before use).
	cfg, err := LoadFileIfExists(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Empty(t, cfg.Country)

	// Present file wins over defaults.
	dir := t.TempDir()
	path := filepath.Join(dir, "geogate.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`country = "nl"`), 0o644))

	cfg, err = LoadFileIfExists(path)
	require.NoError(t, err)
	assert.Equal(t, "nl", cfg.Country)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	_, err := Load([]byte(`country = `), "test.hcl")
	assert.Error(t, err)
}
