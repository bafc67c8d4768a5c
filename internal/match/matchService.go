package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/akolanti/JobMatch/internal/catalog"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/embedding"
	"github.com/akolanti/JobMatch/internal/metrics"
	"github.com/akolanti/JobMatch/internal/textproc"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

// Engine ranks a resume against a catalog. Callers only see this contract;
// the embedder behind it is swapped for a mock in tests.
type Engine interface {
	Match(ctx context.Context, resumeText string, cat *catalog.Catalog) (matchModel.RankedResultList, error)
}

type engine struct {
	embedder  embedding.Embedder
	chunkSize int
	logger    *logger_i.Logger
}

func NewEngine(em embedding.Embedder, chunkSize int) Engine {
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	return &engine{
		embedder:  em,
		chunkSize: chunkSize,
		logger:    logger_i.NewLogger("match_engine"),
	}
}

// Match embeds the first chunk of the resume and every posting description
// (sequentially, nothing cached) and returns one result per posting, best
// first. Any embedding failure fails the whole match.
func (e *engine) Match(ctx context.Context, resumeText string, cat *catalog.Catalog) (matchModel.RankedResultList, error) {
	log := e.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("match", time.Since(start)) }()

	if err := cat.Validate(); err != nil {
		return nil, err
	}

	matchCtx, cancel := context.WithTimeout(ctx, config.MatchTimeout)
	defer cancel()

	chunks, err := textproc.Chunk(resumeText, e.chunkSize)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, matchModel.ErrEmptyDocument
	}
	log.Debug("resume chunked", "chunks", len(chunks), "chunkSize", e.chunkSize)

	resumeVector, err := e.executeEmbeddingStep(matchCtx, chunks[0])
	if err != nil {
		log.Error("Error embedding resume", "error", err)
		return nil, matchModel.NewUpstreamError("embedding", err)
	}

	skills := topSkills(textproc.ExtractSkills(resumeText))

	results := make(matchModel.RankedResultList, 0, cat.Len())
	for _, posting := range cat.Postings {
		pct, err := e.scorePosting(matchCtx, resumeVector, posting)
		if err != nil {
			log.Error("Error scoring posting", "job", posting.Title, "error", err)
			return nil, err
		}
		results = append(results, newMatchResult(posting, pct, skills, cat.CareerPath(posting.Title)))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPercentage > results[j].MatchPercentage
	})
	log.Debug("match complete", "results", len(results), "skills", len(skills))
	return results, nil
}

func (e *engine) scorePosting(ctx context.Context, resumeVector []float32, posting catalog.JobPosting) (float64, error) {
	jobVector, err := e.executeEmbeddingStep(ctx, posting.Description)
	if err != nil {
		return 0, matchModel.NewUpstreamError("embedding", fmt.Errorf("posting %q: %w", posting.Title, err))
	}
	return executeScoringStep(resumeVector, jobVector, posting.Title)
}
