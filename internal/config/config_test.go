package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model != "openai/gpt-4o-mini" {
		t.Errorf("expected default model %q, got %q", "openai/gpt-4o-mini", cfg.Model)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("expected default max_tokens 1000, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("expected default temperature 0.1, got %f", cfg.Temperature)
	}
	if cfg.MaxConcurrent != 15 {
		t.Errorf("expected default max_concurrent 15, got %d", cfg.MaxConcurrent)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected default data_dir %q, got %q", "data", cfg.DataDir)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected default retry.max_attempts 3, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.termbench.yml")

	original := DefaultConfig()
	original.Model = "anthropic/claude-sonnet-4.5"
	original.MaxTokens = 2000
	original.Temperature = 0.7
	original.MaxConcurrent = 4
	original.CSVDir = "artifacts/csv"
	original.Retry.MaxAttempts = 5

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.MaxTokens != original.MaxTokens {
		t.Errorf("max_tokens: got %d, want %d", loaded.MaxTokens, original.MaxTokens)
	}
	if loaded.Temperature != original.Temperature {
		t.Errorf("temperature: got %f, want %f", loaded.Temperature, original.Temperature)
	}
	if loaded.MaxConcurrent != original.MaxConcurrent {
		t.Errorf("max_concurrent: got %d, want %d", loaded.MaxConcurrent, original.MaxConcurrent)
	}
	if loaded.CSVDir != original.CSVDir {
		t.Errorf("csv_dir: got %q, want %q", loaded.CSVDir, original.CSVDir)
	}
	if loaded.Retry.MaxAttempts != original.Retry.MaxAttempts {
		t.Errorf("retry.max_attempts: got %d, want %d", loaded.Retry.MaxAttempts, original.Retry.MaxAttempts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Model != "openai/gpt-4o-mini" {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override the model via env var.
	os.Setenv("TERMBENCH_MODEL", "google/gemini-2.5-flash")
	defer os.Unsetenv("TERMBENCH_MODEL")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "google/gemini-2.5-flash" {
		t.Errorf("env override failed: got %q, want %q", loaded.Model, "google/gemini-2.5-flash")
	}
}

func TestLoadEnvOverrideNumeric(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("TERMBENCH_MAX_CONCURRENT", "3")
	defer os.Unsetenv("TERMBENCH_MAX_CONCURRENT")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.MaxConcurrent != 3 {
		t.Errorf("env override failed: got %d, want 3", loaded.MaxConcurrent)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateEmptyModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty model")
	}
}

func TestValidateZeroMaxTokens(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTokens = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero max_tokens")
	}
}

func TestValidateTemperatureOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Temperature = 2.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for temperature above 2")
	}

	cfg = DefaultConfig()
	cfg.Temperature = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative temperature")
	}
}

func TestValidateZeroConcurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrent = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero max_concurrent")
	}
}

func TestValidateEmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty data_dir")
	}
}

func TestValidateZeroRetryAttempts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.MaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero retry.max_attempts")
	}
}

func TestResolveAPIKeyExplicit(t *testing.T) {
	os.Setenv(APIKeyEnvVar, "sk-or-env")
	defer os.Unsetenv(APIKeyEnvVar)

	// Explicit key wins over the environment.
	key, err := ResolveAPIKey("sk-or-flag")
	if err != nil {
		t.Fatalf("ResolveAPIKey failed: %v", err)
	}
	if key != "sk-or-flag" {
		t.Errorf("expected explicit key, got %q", key)
	}
}

func TestResolveAPIKeyFromEnv(t *testing.T) {
	os.Setenv(APIKeyEnvVar, "sk-or-env")
	defer os.Unsetenv(APIKeyEnvVar)

	key, err := ResolveAPIKey("")
	if err != nil {
		t.Fatalf("ResolveAPIKey failed: %v", err)
	}
	if key != "sk-or-env" {
		t.Errorf("expected env key, got %q", key)
	}
}

func TestResolveAPIKeyMissing(t *testing.T) {
	os.Unsetenv(APIKeyEnvVar)
	if _, err := ResolveAPIKey(""); err == nil {
		t.Error("expected error when no key is available")
	}
}

func TestValidatePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1", false},
		{"15", false},
		{"0", true},
		{"-3", true},
		{"abc", true},
		{"", true},
	}
	for _, tt := range tests {
		err := validatePositiveInt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validatePositiveInt(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
