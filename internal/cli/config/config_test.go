package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/solbox-go/internal/core/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Engine != EngineBadger {
		t.Errorf("Storage.Engine = %q, want %q", cfg.Storage.Engine, EngineBadger)
	}
	if !strings.HasSuffix(cfg.Storage.DataDir, filepath.Join(".solbox", "data")) {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format = %q, want table", cfg.Output.Format)
	}
	if err := cfg.Verify(); err != nil {
		t.Errorf("Default().Verify() error = %v", err)
	}

	id, err := cfg.ProgramID()
	if err != nil {
		t.Fatal(err)
	}
	if id != domain.AddressFromSeed(DefaultProgramSeed) {
		t.Errorf("ProgramID() = %s", id)
	}
	if cfg.Runtime().ProgramID != id {
		t.Error("Runtime() should carry the program id")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !strings.HasSuffix(path, filepath.Join(".solbox", "solbox.yaml")) {
		t.Errorf("DefaultConfigPath() = %q", path)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory engine", func(c *Config) { c.Storage.Engine = EngineMemory; c.Storage.DataDir = "" }, ""},
		{"unknown engine", func(c *Config) { c.Storage.Engine = "bolt" }, "storage.engine"},
		{"badger without dir", func(c *Config) { c.Storage.DataDir = "" }, "storage.data_dir"},
		{"bad program id", func(c *Config) { c.Program.ID = "not-base58!" }, "program.id"},
		{"negative threshold", func(c *Config) { c.Rent.ExemptionThreshold = -1 }, "rent.exemption_threshold"},
		{"negative rate", func(c *Config) { c.RateLimit.PerSecond = -1 }, "rate_limit"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad output", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Verify()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solbox.yaml")
	content := `
storage:
  engine: memory
rent:
  lamports_per_byte_year: 10
  exemption_threshold: 1
log:
  level: debug
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Engine != EngineMemory {
		t.Errorf("Storage.Engine = %q", cfg.Storage.Engine)
	}
	if cfg.Rent.LamportsPerByteYear != 10 || cfg.Rent.ExemptionThreshold != 1 {
		t.Errorf("Rent = %+v", cfg.Rent)
	}
	if cfg.Log.Level != "debug" || cfg.Output.Format != "json" {
		t.Errorf("Log = %+v, Output = %+v", cfg.Log, cfg.Output)
	}
	// untouched keys keep defaults
	if cfg.Storage.Badger.NumMemtables != 2 {
		t.Errorf("Badger.NumMemtables = %d, want default", cfg.Storage.Badger.NumMemtables)
	}
}

func TestLoad_OverridesAndEnv(t *testing.T) {
	t.Setenv("SOLBOX_OUTPUT__FORMAT", "yaml")
	t.Setenv("SOLBOX_STORAGE__DATA_DIR", "/from/env")

	cfg, err := Load(filepath.Join(writeEmpty(t)), map[string]any{
		"storage.engine": EngineMemory,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Engine != EngineMemory {
		t.Errorf("Storage.Engine = %q, want override", cfg.Storage.Engine)
	}
	if cfg.Storage.DataDir != "/from/env" {
		t.Errorf("Storage.DataDir = %q, want env", cfg.Storage.DataDir)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, want env", cfg.Output.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeEmpty(t), map[string]any{"output.format": "csv"})
	if err == nil {
		t.Error("Load() should reject an invalid configuration")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solbox.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
