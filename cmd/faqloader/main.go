package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"embedding-mock/internal/app"
	"embedding-mock/internal/client"
	"embedding-mock/internal/config"
	"embedding-mock/internal/faq"
	"embedding-mock/internal/logger"
)

func main() {
	if err := app.LoadDotEnv(); err != nil {
		slog.Default().Error("failed to load environment", "err", err)
		os.Exit(1)
	}
	cfg := config.LoadLoader()
	// stdout carries the NDJSON output.
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log, os.Stdout)
	stop()
	if err != nil {
		log.Error("faq load failed", "err", err)
		os.Exit(1)
	}
}

// run reads cfg.InputFile, embeds each question through the embedding
// service and writes the documents to cfg.OutputFile, or stdout when unset.
func run(ctx context.Context, cfg config.LoaderConfig, log *slog.Logger, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	faqs, err := faq.ReadFile(cfg.InputFile)
	if err != nil {
		return err
	}
	log.Info("loaded faq entries", "count", len(faqs), "file", cfg.InputFile)

	c, err := client.New(cfg.ServiceURL,
		client.WithTimeout(cfg.Timeout),
		client.WithRetries(cfg.Retries, cfg.RetryBackoff),
		client.WithDimension(cfg.EmbeddingDim),
		client.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding client: %w", err)
	}

	model := faq.Model{Provider: cfg.Provider, Name: cfg.ModelName, Dim: cfg.EmbeddingDim}
	res, err := faq.NewLoader(c, model, cfg.Workers, log).Load(ctx, faqs)
	if err != nil {
		return err
	}

	if err := writeDocuments(cfg.OutputFile, stdout, res.Documents); err != nil {
		return err
	}

	if len(res.Failed) > 0 {
		return fmt.Errorf("%d of %d faq entries failed", len(res.Failed), len(faqs))
	}
	return nil
}

func writeDocuments(path string, stdout io.Writer, docs []faq.Document) error {
	if path == "" {
		return faq.WriteNDJSON(stdout, docs)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := faq.WriteNDJSON(f, docs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
