package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"embedding-mock/internal/config"
	"embedding-mock/internal/embeddings"
	"embedding-mock/internal/logger"
)

// Deps bundles the runtime dependencies of the service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Embedder embeddings.Embedder
}

// Build loads an optional .env file, config, and shared components.
func Build() (Deps, error) {
	if err := LoadDotEnv(); err != nil {
		return Deps{}, err
	}
	return BuildFrom(config.Load())
}

// LoadDotEnv loads .env from the working directory when one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// BuildFrom wires dependencies from an already loaded config.
func BuildFrom(cfg config.Config) (Deps, error) {
	if err := cfg.Validate(); err != nil {
		return Deps{}, fmt.Errorf("invalid config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	embedder, err := buildEmbedder(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	return Deps{
		Config:   cfg,
		Log:      log,
		Embedder: embedder,
	}, nil
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	embedder, err := embeddings.NewRandom(cfg.EmbeddingDim, cfg.EmbeddingBound)
	if err != nil {
		return nil, err
	}
	log.Info("using random embedder", "dim", cfg.EmbeddingDim, "bound", cfg.EmbeddingBound)
	return embedder, nil
}
