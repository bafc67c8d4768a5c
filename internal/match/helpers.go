package match

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/akolanti/JobMatch/internal/catalog"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/metrics"
	"github.com/akolanti/JobMatch/internal/similarity"
)

func (e *engine) executeEmbeddingStep(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vec, err := e.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	for _, v := range vec {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, matchModel.ErrNonFiniteVector
		}
	}
	return vec, nil
}

func executeScoringStep(resumeVector []float32, jobVector []float32, title string) (float64, error) {
	sim, err := similarity.Cosine(resumeVector, jobVector)
	if err != nil {
		return 0, fmt.Errorf("scoring %q: %w", title, err)
	}
	return similarity.ToPercentage(sim), nil
}

func topSkills(skills []string) []string {
	if len(skills) > config.MaxMatchedSkills {
		return skills[:config.MaxMatchedSkills]
	}
	return skills
}

// newMatchResult gives every result its own skills slice so callers can
// edit one without touching the others.
func newMatchResult(posting catalog.JobPosting, pct float64, skills []string, careerPath string) matchModel.MatchResult {
	return matchModel.MatchResult{
		JobTitle:        posting.Title,
		Company:         posting.Company,
		Location:        posting.Location,
		Salary:          posting.Salary,
		MatchPercentage: pct,
		MatchedSkills:   append(make([]string, 0, len(skills)), skills...),
		CareerPath:      careerPath,
	}
}
