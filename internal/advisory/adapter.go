package advisory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

type Adapter struct {
	gen        Generator
	textModel  string
	imageModel string
	timeout    time.Duration
	isbn       ISBNLookup
	logger     *zap.Logger
}

// New builds an adapter around gen. A nil gen puts the adapter in degraded
// mode where every call returns its fallback immediately.
func New(gen Generator, cfg Config, logger *zap.Logger) *Adapter {
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		gen:        gen,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// NewGemini connects to the Gemini API. Without an API key it returns a
// degraded adapter rather than an error.
func NewGemini(ctx context.Context, cfg Config, logger *zap.Logger) (*Adapter, error) {
	if cfg.APIKey == "" {
		if logger != nil {
			logger.Warn("GEMINI_API_KEY not set; advisory runs in degraded mode")
		}
		return New(nil, cfg, logger), nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return New(client.Models, cfg, logger), nil
}

// Enabled reports whether a model is configured.
func (a *Adapter) Enabled() bool {
	return a.gen != nil
}

func (a *Adapter) generate(ctx context.Context, op, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if a.gen == nil {
		return nil, fmt.Errorf("%w: no model configured", ErrAdvisoryUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.gen.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAdvisoryUnavailable, op, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s: nil response", ErrAdvisoryUnavailable, op)
	}
	a.logger.Debug("advisory call",
		zap.String("op", op),
		zap.String("model", model),
		zap.Duration("took", time.Since(start)),
	)
	return resp, nil
}

func (a *Adapter) degrade(op string, err error) {
	a.logger.Warn("advisory fallback", zap.String("op", op), zap.Error(err))
}

// Insight writes a short reader-facing recommendation for a book.
func (a *Adapter) Insight(ctx context.Context, b BookInfo) Advice {
	resp, err := a.generate(ctx, "insight", a.textModel, insightPrompt(b), &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		a.degrade("insight", err)
		return Advice{Value: FallbackInsight, Degraded: true}
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		a.degrade("insight", fmt.Errorf("%w: empty response", ErrAdvisoryUnavailable))
		return Advice{Value: EmptyInsight, Degraded: true}
	}
	return Advice{Value: text}
}

var categorySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"category": {
			Type:        genai.TypeString,
			Description: "The suggested library category in Thai.",
		},
	},
	Required:         []string{"category"},
	PropertyOrdering: []string{"category"},
}

// SuggestCategory proposes a short category label for a title and author.
func (a *Adapter) SuggestCategory(ctx context.Context, title, author string) Advice {
	resp, err := a.generate(ctx, "category", a.textModel, categoryPrompt(title, author), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   categorySchema,
	})
	if err == nil {
		var out struct {
			Category string `json:"category"`
		}
		if err = json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &out); err != nil {
			err = fmt.Errorf("%w: decode category: %w", ErrAdvisoryUnavailable, err)
		} else if c := strings.TrimSpace(out.Category); c != "" {
			return Advice{Value: c}
		} else {
			err = fmt.Errorf("%w: empty category", ErrAdvisoryUnavailable)
		}
	}
	a.degrade("category", err)
	return Advice{Value: FallbackCategory, Degraded: true}
}

// GenerateCover draws a cover and returns it as a data URI.
func (a *Adapter) GenerateCover(ctx context.Context, title, category string) Cover {
	if strings.TrimSpace(category) == "" {
		category = FallbackCoverCategory
	}
	resp, err := a.generate(ctx, "cover", a.imageModel, coverPrompt(title, category), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "3:4"},
	})
	if err != nil {
		a.degrade("cover", err)
		return Cover{Degraded: true}
	}
	if uri, ok := firstImage(resp); ok {
		return Cover{Image: &uri}
	}
	a.degrade("cover", fmt.Errorf("%w: no image in response", ErrAdvisoryUnavailable))
	return Cover{Degraded: true}
}

func firstImage(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), true
	}
	return "", false
}
