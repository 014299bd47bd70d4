package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/yndnr/solbox-go/internal/infra/confloader"
)

// Load builds the configuration from defaults, the file at path, SOLBOX_*
// variables and overrides, in increasing priority.
//
// An explicit path must exist. With an empty path the default file is
// used only if present.
func Load(path string, overrides map[string]any) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg := Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return cfg, nil
}
