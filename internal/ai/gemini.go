package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sakif/ganfan/internal/dataurl"
)

const (
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel      = "gemini-3-flash-preview"
	DefaultGeminiImageModel = "gemini-2.5-flash-image"
)

// maxErrorMessage bounds how much of an upstream error body ends up in logs.
const maxErrorMessage = 512

// ErrNotConfigured is returned by every call of a client without an API key.
var ErrNotConfigured = errors.New("gemini: missing api key")

// GeminiConfig configures GeminiClient. Zero values fall back to the
// Default* constants and a 60s timeout.
type GeminiConfig struct {
	APIKey     string
	Model      string
	ImageModel string
	BaseURL    string
	Timeout    time.Duration
}

// GeminiClient is a Generator backed by the Gemini generateContent API.
type GeminiClient struct {
	cfg    GeminiConfig
	models *genai.Models
	logger *slog.Logger
}

// NewGeminiClient builds the SDK client. Without an API key no client is
// built and every Generate call returns ErrNotConfigured.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultGeminiImageModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	c := &GeminiClient{cfg: cfg, logger: logger}
	if cfg.APIKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	c.models = client.Models
	return c, nil
}

// Generate makes one generateContent call. Image requests go to the image
// model, everything else to the text model.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (Response, error) {
	if c.models == nil {
		return Response{}, ErrNotConfigured
	}
	if len(req.Parts) == 0 {
		return Response{}, errors.New("gemini: empty request")
	}

	modelName := c.cfg.Model
	if req.Image {
		modelName = c.cfg.ImageModel
	}

	contents, err := buildContents(req.Parts)
	if err != nil {
		return Response{}, err
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, modelName, contents, buildConfig(req))
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return Response{}, fmt.Errorf("gemini: api error %d: %s", apiErr.Code, truncate(apiErr.Message, maxErrorMessage))
		}
		return Response{}, fmt.Errorf("gemini: calling %s: %w", modelName, err)
	}

	c.logger.Debug("gemini: response",
		slog.String("model", modelName),
		slog.Duration("duration", time.Since(start)),
	)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Response{}, errors.New("gemini: empty response")
	}

	var (
		out  Response
		text strings.Builder
	)
	for _, p := range resp.Candidates[0].Content.Parts {
		switch {
		case p.Thought:
		case p.InlineData != nil:
			out.Images = append(out.Images, dataurl.Image{
				MIME: p.InlineData.MIMEType,
				Data: base64.StdEncoding.EncodeToString(p.InlineData.Data),
			})
		default:
			text.WriteString(p.Text)
		}
	}
	out.Text = text.String()
	return out, nil
}

func buildContents(parts []Part) ([]*genai.Content, error) {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Inline == nil {
			out = append(out, genai.NewPartFromText(p.Text))
			continue
		}
		data, err := p.Inline.Decode()
		if err != nil {
			return nil, fmt.Errorf("gemini: decoding inline image: %w", err)
		}
		out = append(out, genai.NewPartFromBytes(data, p.Inline.MIME))
	}
	return []*genai.Content{genai.NewContentFromParts(out, genai.RoleUser)}, nil
}

func buildConfig(req Request) *genai.GenerateContentConfig {
	switch {
	case req.Image:
		return &genai.GenerateContentConfig{
			ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
			ImageConfig:        &genai.ImageConfig{AspectRatio: "1:1"},
		}
	case req.Schema != nil:
		return &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   toGenaiSchema(req.Schema),
		}
	}
	return nil
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     genai.Type(s.Type),
		Items:    toGenaiSchema(s.Items),
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
