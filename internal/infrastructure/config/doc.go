// Package config loads server configuration from the environment with
// envconfig, optionally overlaid by a YAML or TOML file named in
// CONFIG_FILE.
package config
