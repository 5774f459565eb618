package cmd

import (
	"os"
	"path/filepath"
)

// ConfigLocation returns the location of the config file given a service
// name following the pattern of ~/.config/serviceName/config.yaml.
func ConfigLocation(serviceName string) string {
	if p := os.Getenv("XDG_CONFIG_HOME"); p != "" {
		return filepath.Join(p, serviceName, "config.yaml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", serviceName, "config.yaml")
}
