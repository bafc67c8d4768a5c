package bedrockEmbedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/embedding"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// InvokeAPI is the part of the Bedrock runtime client we call.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type client struct {
	api    InvokeAPI
	model  string
	logger *logger_i.Logger
}

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

func New(api InvokeAPI, model string) embedding.Embedder {
	if model == "" {
		model = config.BedrockEmbeddingModel
	}
	return &client{
		api:    api,
		model:  model,
		logger: logger_i.NewLogger("bedrock_embedding"),
	}
}

// NewFromConfig builds the runtime client from cfg's credentials. Titan v1 is
// only served from one region, so region overrides cfg's.
func NewFromConfig(cfg aws.Config, region string, model string) embedding.Embedder {
	if region == "" {
		region = config.BedrockRegion
	}
	regional := cfg.Copy()
	regional.Region = region
	return New(bedrockruntime.NewFromConfig(regional), model)
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "model", c.model)

	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, err
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		log.Error("Error invoking bedrock model", "error", err)
		return nil, fmt.Errorf("bedrock invoke %s: %w", c.model, err)
	}

	var res titanResponse
	if err := json.Unmarshal(out.Body, &res); err != nil {
		return nil, fmt.Errorf("decoding bedrock response: %w", err)
	}
	if len(res.Embedding) == 0 {
		return nil, errors.New("bedrock returned an empty embedding")
	}
	log.Debug("embedding received", "dimension", len(res.Embedding), "tokens", res.InputTextTokenCount)
	return res.Embedding, nil
}
