package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.Analysis.CancellationThreshold != 10 || cfg.Analysis.InvoiceThreshold != 15 {
		t.Errorf("thresholds = %d/%d, want 10/15", cfg.Analysis.CancellationThreshold, cfg.Analysis.InvoiceThreshold)
	}
	if cfg.Analysis.MinProviderConfidence != 90 {
		t.Errorf("MinProviderConfidence = %d, want 90", cfg.Analysis.MinProviderConfidence)
	}
	if cfg.Analysis.MaxRollovers != 1000 {
		t.Errorf("MaxRollovers = %d, want 1000", cfg.Analysis.MaxRollovers)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ANALYSIS_MIN_TYPE_SCORE", "7")
	t.Setenv("ANALYSIS_PREFER_LATEST_FUTURE", "true")
	t.Setenv("BATCH_DOCUMENT_TIMEOUT", "5s")
	t.Setenv("BATCH_WORKERS", "not-a-number")

	cfg := LoadConfig()
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Analysis.MinTypeScore != 7 || !cfg.Analysis.PreferLatestFuture {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Batch.DocumentTimeout != 5*time.Second {
		t.Errorf("DocumentTimeout = %v", cfg.Batch.DocumentTimeout)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("unparseable env should keep default, got %d", cfg.Batch.Workers)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("log:\n  format: json\nanalysis:\n  invoice_threshold: 20\nbatch:\n  document_timeout: 45s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
	if cfg.Analysis.InvoiceThreshold != 20 {
		t.Errorf("InvoiceThreshold = %d", cfg.Analysis.InvoiceThreshold)
	}
	if cfg.Analysis.CancellationThreshold != 10 {
		t.Errorf("keys missing from the file should keep defaults, got %d", cfg.Analysis.CancellationThreshold)
	}
	if cfg.Batch.DocumentTimeout != 45*time.Second {
		t.Errorf("DocumentTimeout = %v", cfg.Batch.DocumentTimeout)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeConfig {
		t.Fatalf("err = %v, want %s AppError", err, CodeConfig)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero threshold", func(c *Config) { c.Analysis.CancellationThreshold = 0 }},
		{"provider above 100", func(c *Config) { c.Analysis.MinProviderConfidence = 101 }},
		{"no workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"negative timeout", func(c *Config) { c.Batch.DocumentTimeout = -time.Second }},
		{"blank output", func(c *Config) { c.Batch.Output = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error should wrap ErrInvalidInput: %v", err)
			}
		})
	}
}
