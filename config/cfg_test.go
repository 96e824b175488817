package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Extract.Safety != "max" {
		t.Errorf("Default safety = %q, want %q", cfg.Extract.Safety, "max")
	}
	if len(cfg.Extract.OutputDir) != 0 {
		t.Errorf("Default output_dir = %q, want empty", cfg.Extract.OutputDir)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Default console level = %q, want %q", cfg.Logging.ConsoleLogger.Level, "normal")
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("Default file level = %q, want %q", cfg.Logging.FileLogger.Level, "none")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
extract:
  output_dir: ` + tmpDir + `
  safety: low
logging:
  console:
    level: debug
  file:
    level: normal
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Extract.Safety != "low" {
		t.Errorf("Safety = %q, want %q", cfg.Extract.Safety, "low")
	}
	if cfg.Extract.OutputDir != tmpDir {
		t.Errorf("OutputDir = %q, want %q", cfg.Extract.OutputDir, tmpDir)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q, want %q", cfg.Logging.ConsoleLogger.Level, "debug")
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("File mode = %q, want %q", cfg.Logging.FileLogger.Mode, "append")
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	// partial config that only overrides some values
	partialConfig := `version: 1
extract:
  safety: low
`

	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Extract.Safety != "low" {
		t.Errorf("Safety = %q, want value from file", cfg.Extract.Safety)
	}
	// defaults must still be present for unspecified sections
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level = %q, want default %q", cfg.Logging.ConsoleLogger.Level, "normal")
	}
	if len(cfg.Reporting.Destination) == 0 {
		t.Error("Reporting destination should have default value")
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `version: 1
extract:
  safety: max
  invalid indent
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid version", "version: 2\n"},
		{"invalid safety", "version: 1\nextract:\n  safety: paranoid\n"},
		{"invalid log level", "version: 1\nlogging:\n  console:\n    level: verbose\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid_values.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// verify it's a valid configuration by trying to unmarshal
	cfg := &Config{}
	if _, err := unmarshalConfig(data, cfg, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Extract: ExtractConfig{Safety: "low"},
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
			FileLogger:    LoggerConfig{Level: "none"},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// verify we can load it back
	cfg2 := &Config{}
	if _, err := unmarshalConfig(data, cfg2, false); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Extract.Safety != cfg.Extract.Safety {
		t.Errorf("Safety mismatch after dump/load: got %q, want %q", cfg2.Extract.Safety, cfg.Extract.Safety)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		data := []byte(`version: 1`)
		cfg := &Config{}

		result, err := unmarshalConfig(data, cfg, false)
		if err != nil {
			t.Errorf("unmarshalConfig() error = %v", err)
		}
		if result == nil {
			t.Fatal("unmarshalConfig() returned nil")
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		data := []byte(`invalid: [yaml`)
		cfg := &Config{}

		if _, err := unmarshalConfig(data, cfg, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	// version: 99 fails validation (validate:"eq=1") and the error should be
	// wrapped so the underlying validation error is reachable via errors.Unwrap
	data := []byte("version: 99\n")
	cfg := &Config{}

	_, err := unmarshalConfig(data, cfg, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error (errors.Unwrap non-nil), got bare error: %v", err)
	}
}
