// Package faq turns a FAQ JSON file into embedded documents.
package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FAQ is one curated question/answer pair.
type FAQ struct {
	Category string `json:"category,omitempty"`
	Question string `json:"question" validate:"notblank,max=300"`
	Answer   string `json:"answer" validate:"notblank,max=1000"`
	Image    string `json:"image,omitempty"` // optional URL, checked by NewDocument
	Link     string `json:"link,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks f on its own.
func (f FAQ) Validate() error {
	return validate.Struct(f)
}

// Read decodes a JSON array of FAQs and validates every item.
// Unknown fields are ignored. The first invalid item fails the whole read.
func Read(r io.Reader) ([]FAQ, error) {
	var faqs []FAQ
	if err := json.NewDecoder(r).Decode(&faqs); err != nil {
		return nil, fmt.Errorf("decode faq json: %w", err)
	}
	for i, f := range faqs {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("validation failed for item %d (question=%q): %w", i, f.Question, err)
		}
	}
	return faqs, nil
}

// ReadFile is Read on the file at path.
func ReadFile(path string) ([]FAQ, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("faq file not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("open faq file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
