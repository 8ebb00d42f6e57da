// Package brand provides centralized identity constants for geogate.
// Keeping them in one place makes renaming or white-labeling the tool
// a one-file change.
package brand

import (
	"os"
	"path/filepath"
)

const (
	Name        = "Geogate"
	LowerName   = "geogate"
	BinaryName  = "geogate"
	Description = "Country allow-list firewall synchronizer"

	ConfigEnvPrefix  = "GEOGATE"
	DefaultConfigDir = "/etc/geogate"
	ConfigFileName   = "geogate.hcl"
)

// Version is set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// DefaultConfigFile returns the default configuration file path.
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// ConfigDir returns the configuration directory, checking GEOGATE_CONFIG_DIR first.
func ConfigDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return DefaultConfigDir
}

// UserAgent returns a User-Agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
