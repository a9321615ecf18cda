package embedding

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/recruitflow/recruitflow/internal/fault"
	"github.com/recruitflow/recruitflow/internal/util"
)

const (
	defaultEmbedModel = "text-embedding-004"
	defaultDimension  = 768

	// The embedding endpoint rejects oversized inputs. Texts are truncated
	// before the call rather than failing the whole run.
	maxTextLength = 40000

	logPreviewLength = 120
)

// GeminiProvider produces embeddings with the Gemini embedding API.
// The underlying client is created lazily on first use and shared by all
// subsequent calls, so concurrent first use performs one initialization.
type GeminiProvider struct {
	apiKey    string
	modelName string
	dimension int
	logger    *zap.Logger

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiProvider configures a provider without touching the network.
// Model and dimension fall back to text-embedding-004 / 768 when empty.
func NewGeminiProvider(apiKey, model string, dimension int, logger *zap.Logger) *GeminiProvider {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbedModel
	}
	if dimension <= 0 {
		dimension = defaultDimension
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiProvider{
		apiKey:    strings.TrimSpace(apiKey),
		modelName: model,
		dimension: dimension,
		logger:    logger,
	}
}

// Dimension returns the vector dimension this provider produces.
func (p *GeminiProvider) Dimension() int { return p.dimension }

// Model returns the configured embedding model name.
func (p *GeminiProvider) Model() string { return p.modelName }

// Embed vectorizes a single text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) (Vector, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch vectorizes texts in one API call, preserving input order.
// Blank texts never reach the API: they map to the zero vector, which
// scores 0 against everything.
func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	if len(texts) == 0 {
		return nil, fault.New(fault.Embedding, "no texts to embed")
	}

	vectors := make([]Vector, len(texts))
	pending := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			vectors[i] = make(Vector, p.dimension)
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) == 0 {
		return vectors, nil
	}

	client, err := p.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, 0, len(pending))
	for _, i := range pending {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: truncateText(texts[i], maxTextLength)}},
		})
	}

	p.logger.Debug("embedding batch",
		zap.Int("count", len(pending)),
		zap.String("model", p.modelName),
		zap.String("first_text_preview", util.TruncateForLog(texts[pending[0]], logPreviewLength)),
	)

	resp, err := client.Models.EmbedContent(ctx, p.modelName, contents, nil)
	if err != nil {
		return nil, fault.Wrap(fault.Embedding, err, "embed content")
	}

	if resp == nil || len(resp.Embeddings) != len(pending) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fault.Newf(fault.Embedding, "expected %d embeddings, got %d", len(pending), got)
	}

	for j, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fault.Newf(fault.Embedding, "empty embedding for text %d", pending[j])
		}
		vectors[pending[j]] = Vector(emb.Values)
	}

	return vectors, nil
}

// truncateText shortens oversized input on a rune boundary so the API never
// receives a split multi-byte character.
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

func (p *GeminiProvider) ensureClient(ctx context.Context) (*genai.Client, error) {
	p.initOnce.Do(func() {
		if p.apiKey == "" {
			p.initErr = fault.New(fault.ModelUnavailable, "gemini api key is required")
			return
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			p.initErr = fault.Wrap(fault.ModelUnavailable, err, "create genai client")
			return
		}

		p.client = client
		p.logger.Debug("gemini embedding client initialized", zap.String("model", p.modelName))
	})

	return p.client, p.initErr
}
