package textractOCR

import (
	"context"
	"fmt"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/ocr"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

type DetectAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

type detector struct {
	api    DetectAPI
	logger *logger_i.Logger
}

func New(api DetectAPI) ocr.TextDetector {
	return &detector{api: api, logger: logger_i.NewLogger("textract_ocr")}
}

func NewFromConfig(cfg aws.Config) ocr.TextDetector {
	return New(textract.NewFromConfig(cfg))
}

// DetectText runs synchronous detection on the object in place; the document
// bytes never pass through this process.
func (d *detector) DetectText(ctx context.Context, bucket string, key string) ([]matchModel.TextBlock, error) {
	log := d.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "bucket", bucket, "key", key)

	out, err := d.api.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		log.Error("textract detection failed", "error", err)
		return nil, fmt.Errorf("textract detect %s/%s: %w", bucket, key, err)
	}

	blocks := make([]matchModel.TextBlock, 0, len(out.Blocks))
	for _, b := range out.Blocks {
		blocks = append(blocks, matchModel.TextBlock{
			Type: matchModel.BlockType(b.BlockType),
			Text: aws.ToString(b.Text),
		})
	}
	log.Debug("textract detection done", "blocks", len(blocks))
	return blocks, nil
}
