package faq

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"embedding-mock/internal/embeddings"
)

const (
	DocumentType   = "faq"
	Similarity     = "cosine"
	Source         = "faq-loader"
	ContentVersion = "v1.0.0"
)

var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Model names the embedding model that produced a document's vector.
type Model struct {
	Provider string
	Name     string
	Dim      int
}

// Meta records how and when a document was embedded.
type Meta struct {
	Provider       string    `json:"provider"`
	ModelName      string    `json:"model_name"`
	ModelDim       int       `json:"model_dim"`
	Similarity     string    `json:"similarity"`
	Source         string    `json:"source"`
	ContentVersion string    `json:"content_version"`
	CreatedAt      time.Time `json:"created_at"`
	IndexedAt      time.Time `json:"indexed_at"`
}

// Document is the indexed form of a FAQ.
type Document struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Category       string            `json:"category,omitempty"`
	Question       string            `json:"question"`
	Answer         string            `json:"answer"`
	Image          string            `json:"image,omitempty"`
	Link           string            `json:"link,omitempty"`
	QuestionVector embeddings.Vector `json:"question_vector"`
	Meta           Meta              `json:"meta"`
}

// ID derives a stable document id from the question: "faq-" plus the first
// four bytes of its SHA-1, hex encoded.
func ID(question string) string {
	sum := sha1.Sum([]byte(question))
	return "faq-" + hex.EncodeToString(sum[:4])
}

// NewDocument builds the document for f. The vector must have model.Dim elements.
func NewDocument(f FAQ, vec embeddings.Vector, model Model, now time.Time) (Document, error) {
	if err := validateURL(f.Image, "image"); err != nil {
		return Document{}, err
	}
	if err := validateURL(f.Link, "link"); err != nil {
		return Document{}, err
	}
	if len(vec) != model.Dim {
		return Document{}, fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, model.Dim, len(vec))
	}
	now = now.UTC()
	return Document{
		ID:             ID(f.Question),
		Type:           DocumentType,
		Category:       f.Category,
		Question:       f.Question,
		Answer:         f.Answer,
		Image:          f.Image,
		Link:           f.Link,
		QuestionVector: vec,
		Meta: Meta{
			Provider:       model.Provider,
			ModelName:      model.Name,
			ModelDim:       model.Dim,
			Similarity:     Similarity,
			Source:         Source,
			ContentVersion: ContentVersion,
			CreatedAt:      now,
			IndexedAt:      now,
		},
	}, nil
}

func validateURL(raw, field string) error {
	if raw == "" {
		return nil
	}
	if err := validate.Var(raw, "url"); err != nil {
		return fmt.Errorf("%w for field '%s': %s", ErrInvalidURL, field, raw)
	}
	return nil
}
