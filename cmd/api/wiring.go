package main

import (
	"context"
	"fmt"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/internal/embedding"
	"github.com/akolanti/JobMatch/internal/embedding/bedrockEmbedding"
	"github.com/akolanti/JobMatch/internal/embedding/googleEmbedding"
	"github.com/akolanti/JobMatch/internal/embedding/openaiEmbedding"
	"github.com/akolanti/JobMatch/internal/ocr"
	"github.com/akolanti/JobMatch/internal/ocr/pdfOCR"
	"github.com/akolanti/JobMatch/internal/ocr/textractOCR"
	"github.com/aws/aws-sdk-go-v2/aws"
)

func newEmbedder(ctx context.Context, settings *config.Settings, awsCfg aws.Config) (embedding.Embedder, error) {
	switch settings.EmbeddingProvider {
	case "bedrock":
		return bedrockEmbedding.NewFromConfig(awsCfg, settings.BedrockRegion, settings.EmbeddingModel), nil
	case "google":
		return googleEmbedding.NewGoogleEmbedder(ctx, settings.GoogleAPIKey, settings.EmbeddingModel, settings.EmbeddingDimension)
	case "openai":
		return openaiEmbedding.NewOpenAIEmbedder(settings.OpenAIAPIKey, settings.EmbeddingModel, settings.EmbeddingDimension, ""), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.EmbeddingProvider)
	}
}

// newDetector returns the OCR backend. The local PDF reader fetches objects
// itself, so it needs the store.
func newDetector(settings *config.Settings, awsCfg aws.Config, store objectStore.ObjectStore) (ocr.TextDetector, error) {
	switch settings.OCRProvider {
	case config.OCRProviderTextract:
		return textractOCR.NewFromConfig(awsCfg), nil
	case config.OCRProviderPDF:
		return pdfOCR.New(store), nil
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", settings.OCRProvider)
	}
}
