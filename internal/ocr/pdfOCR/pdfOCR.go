package pdfOCR

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/ocr"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/dslipak/pdf"
)

const pageExtractTimeout = 10 * time.Second

// detector reads text-layer PDFs out of the object store. Scanned documents
// without a text layer come back empty; use Textract for those.
type detector struct {
	store  objectStore.ObjectStore
	logger *logger_i.Logger
}

func New(store objectStore.ObjectStore) ocr.TextDetector {
	return &detector{store: store, logger: logger_i.NewLogger("pdf_ocr")}
}

func (d *detector) DetectText(ctx context.Context, bucket string, key string) ([]matchModel.TextBlock, error) {
	log := d.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "bucket", bucket, "key", key)

	raw, err := d.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetching %s/%s: %w", bucket, key, err)
	}

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		log.Error("failed opening of pdf file", "error", err)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var blocks []matchModel.TextBlock
	numPages := r.NumPage()
	log.Debug("extracting pdf", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			log.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		blocks = append(blocks, matchModel.TextBlock{Type: matchModel.BlockTypePage})
		blocks = append(blocks, linesToBlocks(content)...)
	}
	return blocks, nil
}

func linesToBlocks(content string) []matchModel.TextBlock {
	var blocks []matchModel.TextBlock
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		blocks = append(blocks, matchModel.TextBlock{Type: matchModel.BlockTypeLine, Text: line})
	}
	return blocks
}

// protectExtract bounds a single page; malformed content streams can make
// the parser spin.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("pdf parser panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
