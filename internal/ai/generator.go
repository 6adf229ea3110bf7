// Package ai turns meal records into captions, analyses and images through a
// generative model. Every feature has a static fallback so callers always
// get something renderable, even with no model configured.
package ai

import (
	"context"

	"github.com/sakif/ganfan/internal/dataurl"
)

// Part is one piece of a prompt: either text or an inline image.
type Part struct {
	Text   string
	Inline *dataurl.Image
}

// Text is a text prompt part.
func Text(s string) Part { return Part{Text: s} }

// Inline is an image prompt part.
func Inline(img dataurl.Image) Part { return Part{Inline: &img} }

// Schema describes the JSON a structured request expects back. Type names
// follow the model API: OBJECT, ARRAY, STRING, NUMBER.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Request is a single generation call.
type Request struct {
	Parts []Part
	// Schema, when set, asks for a JSON answer matching it.
	Schema *Schema
	// Image asks for a square image answer instead of text.
	Image bool
}

// Response holds the text and images a model answered with.
type Response struct {
	Text   string
	Images []dataurl.Image
}

// Generator is the external model. Implementations make exactly one attempt.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Response, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
