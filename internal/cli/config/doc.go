// Package config defines the solbox command configuration.
//
// Configuration is read from ~/.solbox/solbox.yaml (or --config), then
// SOLBOX_* environment variables, then command-line flags. Fields missing
// from every source keep the values from Default.
package config
