package config

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the mock embedding service.
type Config struct {
	// Server
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT" envDefault:"8000"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"` // 1MB

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"

	// Embeddings
	EmbeddingDim   int     `env:"EMBEDDING_DIM" envDefault:"1024"`
	EmbeddingBound float64 `env:"EMBEDDING_BOUND" envDefault:"0.1"` // values are drawn from [-bound, bound]
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate reports the first setting the service cannot run with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.EmbeddingBound <= 0 || math.IsNaN(c.EmbeddingBound) || math.IsInf(c.EmbeddingBound, 0) {
		return fmt.Errorf("EMBEDDING_BOUND must be a positive finite number, got %v", c.EmbeddingBound)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.ShutdownTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

// LoaderConfig configures the FAQ loader.
type LoaderConfig struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Input and output
	InputFile  string `env:"FAQ_INPUT_FILE" envDefault:"faq.json"`
	OutputFile string `env:"FAQ_OUTPUT_FILE"` // empty writes NDJSON to stdout
	Workers    int    `env:"UPLOADER_THREADS" envDefault:"4"`

	// Embedding service
	ServiceURL   string        `env:"EMBEDDING_SERVICE_URL" envDefault:"http://localhost:8000/"`
	ModelName    string        `env:"EMBEDDING_MODEL_NAME" envDefault:"granite-embedding-english-r2"`
	Provider     string        `env:"EMBEDDING_PROVIDER" envDefault:"ibm-granite"`
	Timeout      time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"5s"`
	Retries      int           `env:"EMBEDDING_RETRIES" envDefault:"2"`
	RetryBackoff time.Duration `env:"EMBEDDING_RETRY_BACKOFF" envDefault:"200ms"`
	EmbeddingDim int           `env:"EMBEDDING_DIM" envDefault:"1024"`
}

// LoadLoader reads the loader configuration from environment variables with defaults.
func LoadLoader() LoaderConfig {
	var cfg LoaderConfig
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate reports the first setting the loader cannot run with.
func (c LoaderConfig) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("FAQ_INPUT_FILE is required")
	}
	if c.ServiceURL == "" {
		return fmt.Errorf("EMBEDDING_SERVICE_URL is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("UPLOADER_THREADS must be positive, got %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("EMBEDDING_RETRIES must not be negative, got %d", c.Retries)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("EMBEDDING_RETRY_BACKOFF must not be negative, got %v", c.RetryBackoff)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	return nil
}
