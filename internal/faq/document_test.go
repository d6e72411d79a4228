package faq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"embedding-mock/internal/embeddings"
)

func TestID(t *testing.T) {
	tests := []struct {
		question string
		expected string
	}{
		{"What is Go?", "faq-062519a0"},
		{"How do I reset my password?", "faq-644ffa3e"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.expected, ID(tt.question))
			assert.Equal(t, ID(tt.question), ID(tt.question))
		})
	}
}

func TestNewDocument(t *testing.T) {
	model := Model{Provider: "ibm-granite", Name: "granite-embedding-english-r2", Dim: 3}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	vec := embeddings.Vector{0.01, -0.02, 0.03}

	tests := []struct {
		name    string
		faq     FAQ
		vec     embeddings.Vector
		wantErr error
	}{
		{
			name: "all fields",
			faq:  FAQ{Category: "Account", Question: "What is Go?", Answer: "A language.", Image: "https://example.com/go.png", Link: "https://go.dev"},
			vec:  vec,
		},
		{
			name: "no optional urls",
			faq:  FAQ{Question: "What is Go?", Answer: "A language."},
			vec:  vec,
		},
		{
			name:    "invalid image url",
			faq:     FAQ{Question: "Q?", Answer: "A.", Image: "not a url"},
			vec:     vec,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "invalid link url",
			faq:     FAQ{Question: "Q?", Answer: "A.", Link: "go.dev/doc"},
			vec:     vec,
			wantErr: ErrInvalidURL,
		},
		{
			name:    "dimension mismatch",
			faq:     FAQ{Question: "Q?", Answer: "A."},
			vec:     embeddings.Vector{0.1},
			wantErr: ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument(tt.faq, tt.vec, model, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ID(tt.faq.Question), doc.ID)
			assert.Equal(t, DocumentType, doc.Type)
			assert.Equal(t, tt.faq.Image, doc.Image)
			assert.Equal(t, tt.faq.Link, doc.Link)
			assert.Equal(t, tt.vec, doc.QuestionVector)
			assert.Equal(t, Meta{
				Provider:       "ibm-granite",
				ModelName:      "granite-embedding-english-r2",
				ModelDim:       3,
				Similarity:     "cosine",
				Source:         "faq-loader",
				ContentVersion: "v1.0.0",
				CreatedAt:      now,
				IndexedAt:      now,
			}, doc.Meta)
		})
	}
}

func TestDocumentJSONOmitsEmptyOptionals(t *testing.T) {
	doc, err := NewDocument(FAQ{Question: "Q?", Answer: "A."}, embeddings.Vector{0.5}, Model{Dim: 1}, time.Unix(0, 0))
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "image")
	assert.NotContains(t, fields, "link")
	assert.NotContains(t, fields, "category")
	assert.Equal(t, []any{0.5}, fields["question_vector"])
	assert.Equal(t, "1970-01-01T00:00:00Z", fields["meta"].(map[string]any)["created_at"])
}
