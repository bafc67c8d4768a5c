package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/customHttpClient"
	"github.com/akolanti/JobMatch/internal/embedding"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"google.golang.org/genai"
)

// contentEmbedder is satisfied by *genai.Models.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type client struct {
	models    contentEmbedder
	model     string
	dimension int32
	logger    *logger_i.Logger
}

func NewGoogleEmbedder(ctx context.Context, apiKey string, model string, dimension int32) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.NewClient(config.EmbeddingCallTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}
	return newClient(c.Models, model, dimension), nil
}

func newClient(models contentEmbedder, model string, dimension int32) *client {
	if model == "" {
		model = config.GoogleEmbeddingModel
	}
	l := logger_i.NewLogger("google_embedding")
	l.Debug("Google Embedding model name: " + model)
	return &client{
		models:    models,
		model:     model,
		dimension: dimension,
		logger:    l,
	}
}

// GetEmbedding makes exactly one call; a rate limit is reported like any
// other failure and left to the trigger's redelivery.
func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := c.doCall(ctx, text)
	if err != nil {
		if isRateLimited(err) {
			log.Error("Rate limit hit! ", "error", err)
		} else {
			log.Error("Error getting Embeddings from Google", "error", err)
		}
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("google returned an empty embedding")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) doCall(ctx context.Context, text string) (*genai.EmbedContentResponse, error) {
	conf := &genai.EmbedContentConfig{TaskType: "RETRIEVAL_DOCUMENT"}
	if c.dimension > 0 {
		dim := c.dimension
		conf.OutputDimensionality = &dim
	}
	return c.models.EmbedContent(ctx, c.model, genai.Text(text), conf)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}
