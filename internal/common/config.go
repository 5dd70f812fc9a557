package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Batch    BatchConfig    `yaml:"batch"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level     string `yaml:"level"`  // debug, info, warn, error
	Format    string `yaml:"format"` // text, json
	OmitTime  bool   `yaml:"omit_time"`
	OmitLevel bool   `yaml:"omit_level"`
}

// AnalysisConfig holds the tunable thresholds of the engine
type AnalysisConfig struct {
	CancellationThreshold int  `yaml:"cancellation_threshold"`
	InvoiceThreshold      int  `yaml:"invoice_threshold"`
	PreferLatestFuture    bool `yaml:"prefer_latest_future"`
	MinTypeScore          int  `yaml:"min_type_score"`
	MinProviderConfidence int  `yaml:"min_provider_confidence"`
	MaxRollovers          int  `yaml:"max_rollovers"`
	MaxTextBytes          int  `yaml:"max_text_bytes"`
	ValidateOutput        bool `yaml:"validate_output"`
}

// BatchConfig holds directory batch configuration
type BatchConfig struct {
	Workers         int           `yaml:"workers"`
	DocumentTimeout time.Duration `yaml:"document_timeout"`
	Output          string        `yaml:"output"`
}

// DefaultAnalysisConfig returns the production thresholds of the engine
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		CancellationThreshold: 10,
		InvoiceThreshold:      15,
		MinTypeScore:          5,
		MinProviderConfidence: 90,
		MaxRollovers:          1000,
		MaxTextBytes:          2 << 20,
		ValidateOutput:        true,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	def := DefaultAnalysisConfig()
	return &Config{
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
			OmitTime:  getEnvAsBool("LOG_OMIT_TIME", false),
			OmitLevel: getEnvAsBool("LOG_OMIT_LEVEL", false),
		},
		Analysis: AnalysisConfig{
			CancellationThreshold: getEnvAsInt("ANALYSIS_CANCELLATION_THRESHOLD", def.CancellationThreshold),
			InvoiceThreshold:      getEnvAsInt("ANALYSIS_INVOICE_THRESHOLD", def.InvoiceThreshold),
			PreferLatestFuture:    getEnvAsBool("ANALYSIS_PREFER_LATEST_FUTURE", def.PreferLatestFuture),
			MinTypeScore:          getEnvAsInt("ANALYSIS_MIN_TYPE_SCORE", def.MinTypeScore),
			MinProviderConfidence: getEnvAsInt("ANALYSIS_MIN_PROVIDER_CONFIDENCE", def.MinProviderConfidence),
			MaxRollovers:          getEnvAsInt("ANALYSIS_MAX_ROLLOVERS", def.MaxRollovers),
			MaxTextBytes:          getEnvAsInt("ANALYSIS_MAX_TEXT_BYTES", def.MaxTextBytes),
			ValidateOutput:        getEnvAsBool("ANALYSIS_VALIDATE_OUTPUT", def.ValidateOutput),
		},
		Batch: BatchConfig{
			Workers:         getEnvAsInt("BATCH_WORKERS", 4),
			DocumentTimeout: getEnvAsDuration("BATCH_DOCUMENT_TIMEOUT", 30*time.Second),
			Output:          getEnv("BATCH_OUTPUT", "contracts.xlsx"),
		},
	}
}

// LoadConfigFile loads the environment configuration and overlays the YAML file at path.
// Keys missing from the file keep their environment or default value.
func LoadConfigFile(path string) (*Config, error) {
	cfg := LoadConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError(CodeConfig, "read config file", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewAppError(CodeConfig, "parse config file "+path, err)
	}
	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error"))
	v.Field("log.format", c.Log.Format, OneOf("text", "json"))
	v.Field("analysis.cancellation_threshold", c.Analysis.CancellationThreshold, IntRange(1, 100))
	v.Field("analysis.invoice_threshold", c.Analysis.InvoiceThreshold, IntRange(1, 100))
	v.Field("analysis.min_type_score", c.Analysis.MinTypeScore, IntRange(1, 100))
	v.Field("analysis.min_provider_confidence", c.Analysis.MinProviderConfidence, IntRange(1, 100))
	v.Field("analysis.max_rollovers", c.Analysis.MaxRollovers, IntRange(1, 100000))
	v.Field("analysis.max_text_bytes", c.Analysis.MaxTextBytes, IntRange(0, 1<<30))
	v.Field("batch.workers", c.Batch.Workers, IntRange(1, 256))
	v.Field("batch.output", c.Batch.Output, Required)
	if c.Batch.DocumentTimeout < 0 {
		v.Field("batch.document_timeout", c.Batch.DocumentTimeout, func(field string, value interface{}) *ValidationError {
			return &ValidationError{Field: field, Value: value, Message: "must not be negative"}
		})
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, fmt.Sprintf("%d invalid settings", len(v.Errors())), fmt.Errorf("%w: %s", ErrInvalidInput, v.ErrorMessage()))
	}
	return nil
}
