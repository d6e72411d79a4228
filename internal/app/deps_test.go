package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embedding-mock/internal/config"
)

func TestBuildFrom(t *testing.T) {
	deps, err := BuildFrom(config.Config{
		Port:            8000,
		LogLevel:        "error",
		EmbeddingDim:    16,
		EmbeddingBound:  0.5,
		MaxBodyBytes:    1024,
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
	})
	require.NoError(t, err)

	assert.NotNil(t, deps.Log)
	require.NotNil(t, deps.Embedder)
	assert.Equal(t, 16, deps.Embedder.Dimension())
}

func TestBuildFromInvalidConfig(t *testing.T) {
	_, err := BuildFrom(config.Config{Port: 8000, EmbeddingDim: 0, EmbeddingBound: 0.1, MaxBodyBytes: 1024})
	assert.ErrorContains(t, err, "invalid config")
}
