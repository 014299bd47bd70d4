package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/solbox-go/internal/cli/output"
	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/runtime"
	"github.com/yndnr/solbox-go/internal/storage"
	"github.com/yndnr/solbox-go/internal/telemetry/logger"
)

// DefaultProgramSeed derives the default program address.
const DefaultProgramSeed = "solbox-program"

// Storage engines.
const (
	EngineBadger = "badger"
	EngineMemory = "memory"
)

// Config is the configuration for the solbox command.
type Config struct {
	Storage   storage.Config    `koanf:"storage"`
	Program   ProgramConfig     `koanf:"program"`
	Rent      runtime.Rent      `koanf:"rent"`
	RateLimit runtime.RateLimit `koanf:"rate_limit"`
	Log       LogConfig         `koanf:"log"`
	Output    OutputConfig      `koanf:"output"`
}

// ProgramConfig identifies the mailbox program.
type ProgramConfig struct {
	// ID is the base58 program address.
	ID string `koanf:"id"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// OutputConfig configures command output.
type OutputConfig struct {
	Format string `koanf:"format"` // table, json, yaml
}

// HomeDir returns ~/.solbox, or .solbox when the home directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".solbox"
	}
	return filepath.Join(home, ".solbox")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "solbox.yaml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: storage.DefaultConfig(filepath.Join(HomeDir(), "data")),
		Program: ProgramConfig{
			ID: domain.AddressFromSeed(DefaultProgramSeed).String(),
		},
		Rent: runtime.DefaultRent(),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Verify checks the configuration for invalid values.
func (c *Config) Verify() error {
	var errs []error

	switch c.Storage.Engine {
	case EngineBadger:
		if c.Storage.DataDir == "" && !c.Storage.Badger.InMemory {
			errs = append(errs, errors.New("storage.data_dir is required for the badger engine"))
		}
	case EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.engine: unknown engine %q", c.Storage.Engine))
	}

	if _, err := c.ProgramID(); err != nil {
		errs = append(errs, err)
	}

	if c.Rent.ExemptionThreshold < 0 {
		errs = append(errs, fmt.Errorf("rent.exemption_threshold must not be negative, got %v", c.Rent.ExemptionThreshold))
	}
	if c.RateLimit.PerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}

	return errors.Join(errs...)
}

// ProgramID parses Program.ID.
func (c *Config) ProgramID() (domain.Address, error) {
	id, err := domain.ParseAddress(c.Program.ID)
	if err != nil {
		return domain.Address{}, fmt.Errorf("program.id: %w", err)
	}
	return id, nil
}

// Runtime returns the runtime configuration. Call Verify first.
func (c *Config) Runtime() runtime.Config {
	id, _ := c.ProgramID()
	return runtime.Config{
		ProgramID: id,
		Rent:      c.Rent,
		RateLimit: c.RateLimit,
	}
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
