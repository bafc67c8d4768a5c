package ocr

import (
	"context"

	"github.com/akolanti/JobMatch/internal/domain/matchModel"
)

// TextDetector recognises the text of a stored document.
type TextDetector interface {
	DetectText(ctx context.Context, bucket string, key string) ([]matchModel.TextBlock, error)
}
