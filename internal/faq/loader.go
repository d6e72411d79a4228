package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"embedding-mock/internal/embedapi"
	"embedding-mock/internal/embeddings"
)

// Embedder produces the vector for one request. *client.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, req embedapi.Request) (embeddings.Vector, error)
}

// Failure is an entry that could not be turned into a document.
type Failure struct {
	Index    int
	Question string
	Err      error
}

// Result holds the documents built by Load, in input order, and the entries that failed.
type Result struct {
	Documents []Document
	Failed    []Failure
}

// Loader embeds FAQ questions on a bounded pool of workers.
type Loader struct {
	embedder Embedder
	model    Model
	workers  int
	log      *slog.Logger
	now      func() time.Time
}

// NewLoader creates a loader running at most workers embeddings at once.
func NewLoader(e Embedder, model Model, workers int, log *slog.Logger) *Loader {
	if workers <= 0 {
		workers = 1
	}
	return &Loader{embedder: e, model: model, workers: workers, log: log, now: time.Now}
}

// Load embeds every FAQ question. A failed entry is logged and recorded in
// Result.Failed; the others still load. Load returns an error only when ctx ends.
func (l *Loader) Load(ctx context.Context, faqs []FAQ) (Result, error) {
	l.log.Info("starting faq load", "entries", len(faqs), "workers", l.workers)

	docs := make([]*Document, len(faqs))
	errs := make([]error, len(faqs))

	var g errgroup.Group
	g.SetLimit(l.workers)
	for i, f := range faqs {
		g.Go(func() error {
			doc, err := l.build(ctx, f)
			if err != nil {
				l.log.Error("error processing faq", "question", f.Question, "err", err)
				errs[i] = err
				return nil
			}
			docs[i] = &doc
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, doc := range docs {
		if doc == nil {
			res.Failed = append(res.Failed, Failure{Index: i, Question: faqs[i].Question, Err: errs[i]})
			continue
		}
		res.Documents = append(res.Documents, *doc)
	}
	l.log.Info("faq load completed", "written", len(res.Documents), "failed", len(res.Failed))
	return res, nil
}

func (l *Loader) build(ctx context.Context, f FAQ) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	vec, err := l.embedder.Embed(ctx, embedapi.Request{
		Model:    l.model.Name,
		Provider: l.model.Provider,
		Text:     f.Question,
	})
	if err != nil {
		return Document{}, fmt.Errorf("embed question: %w", err)
	}
	return NewDocument(f, vec, l.model, l.now())
}

// WriteNDJSON writes one JSON document per line.
func WriteNDJSON(w io.Writer, docs []Document) error {
	enc := json.NewEncoder(w)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("write document %s: %w", doc.ID, err)
		}
	}
	return nil
}
