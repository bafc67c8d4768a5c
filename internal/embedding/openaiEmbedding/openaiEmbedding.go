package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/customHttpClient"
	"github.com/akolanti/JobMatch/internal/embedding"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api       openai.Client
	model     string
	dimension int64
	logger    *logger_i.Logger
}

// NewOpenAIEmbedder talks to the OpenAI embeddings API, or any compatible
// server when baseURL is set.
func NewOpenAIEmbedder(apiKey string, model string, dimension int32, baseURL string) embedding.Embedder {
	if model == "" {
		model = config.OpenAIEmbeddingModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.NewClient(config.EmbeddingCallTimeout)),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &client{
		api:       openai.NewClient(opts...),
		model:     model,
		dimension: int64(dimension),
		logger:    logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "model", c.model)

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: c.model,
	}
	if c.dimension > 0 {
		params.Dimensions = openai.Int(c.dimension)
	}

	res, err := c.api.Embeddings.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.Error("OpenAI rejected embedding request", "status", apiErr.StatusCode, "error", err)
		} else {
			log.Error("Error calling OpenAI embeddings", "error", err)
		}
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(res.Data) == 0 || len(res.Data[0].Embedding) == 0 {
		return nil, errors.New("openai returned an empty embedding")
	}

	vec := make([]float32, len(res.Data[0].Embedding))
	for i, v := range res.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
