// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Values passed through LoadMap (command-line flags)
//  2. Environment variables (SOLBOX_ prefix)
//  3. The YAML configuration file
//  4. Defaults already present in the target struct
//
// Environment names map to keys by lowercasing and using a double
// underscore between levels, so SOLBOX_STORAGE__DATA_DIR sets
// storage.data_dir.
package confloader
