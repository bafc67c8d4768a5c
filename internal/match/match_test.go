package match_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/akolanti/JobMatch/internal/catalog"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/match"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Postings: []catalog.JobPosting{
			{Title: "Cloud Engineer", Company: "AWS", Location: "Bangalore", Salary: "12", Description: "cloud"},
			{Title: "Data Analyst", Company: "Accenture", Location: "Chennai", Salary: "6", Description: "data"},
			{Title: "Business Analyst", Company: "Deloitte", Location: "Mumbai", Salary: "6", Description: "business"},
		},
		CareerPaths: map[string]string{
			"Cloud Engineer": "AWS Architect → DevOps Lead → Cloud Manager",
			"Data Analyst":   "Senior Analyst → Data Scientist → Analytics Manager",
		},
	}
}

func vectorsByText(vectors map[string][]float32, fallback []float32) func(context.Context, string) ([]float32, error) {
	return func(_ context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return fallback, nil
	}
}

func TestMatch_RanksByPercentage(t *testing.T) {
	em := &MockEmbedder{OnGetEmbedding: vectorsByText(map[string][]float32{
		"cloud":    {0, 1},
		"data":     {1, 0},
		"business": {1, 1},
	}, []float32{1, 0})}

	resume := "Python SQL AWS Docker Kubernetes Excel Lambda"
	got, err := match.NewEngine(em, 500).Match(context.Background(), resume, testCatalog())
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected one result per posting, got %d", len(got))
	}
	wantOrder := []string{"Data Analyst", "Business Analyst", "Cloud Engineer"}
	wantPct := []float64{100, 70.71, 0}
	for i, r := range got {
		if r.JobTitle != wantOrder[i] {
			t.Errorf("position %d: got %s, want %s", i, r.JobTitle, wantOrder[i])
		}
		if r.MatchPercentage != wantPct[i] {
			t.Errorf("%s: pct got %v, want %v", r.JobTitle, r.MatchPercentage, wantPct[i])
		}
	}

	if got[0].CareerPath != "Senior Analyst → Data Scientist → Analytics Manager" {
		t.Errorf("career path got %q", got[0].CareerPath)
	}
	if got[1].CareerPath != config.DefaultCareerPath {
		t.Errorf("missing career path should fall back, got %q", got[1].CareerPath)
	}
	if got[0].Company != "Accenture" || got[0].Location != "Chennai" || got[0].Salary != "6" {
		t.Errorf("posting fields not copied: %+v", got[0])
	}

	wantSkills := []string{"python", "aws", "sql", "lambda", "docker"}
	for _, r := range got {
		if strings.Join(r.MatchedSkills, ",") != strings.Join(wantSkills, ",") {
			t.Errorf("%s skills got %v, want %v", r.JobTitle, r.MatchedSkills, wantSkills)
		}
	}

	got[0].MatchedSkills[0] = "changed"
	if got[1].MatchedSkills[0] != "python" {
		t.Error("results must not share skill slices")
	}
}

func TestMatch_TiesKeepCatalogOrder(t *testing.T) {
	em := &MockEmbedder{}
	got, err := match.NewEngine(em, 500).Match(context.Background(), "anything", testCatalog())
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	for i, p := range testCatalog().Postings {
		if got[i].JobTitle != p.Title {
			t.Errorf("tie at %d: got %s, want %s", i, got[i].JobTitle, p.Title)
		}
	}
}

func TestMatch_EmbedsFirstChunkOnly(t *testing.T) {
	em := &MockEmbedder{}
	resume := strings.Repeat("a", 1200)

	if _, err := match.NewEngine(em, 500).Match(context.Background(), resume, testCatalog()); err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if em.CallCount() != 1+3 {
		t.Fatalf("expected 4 embedding calls, got %d", em.CallCount())
	}
	if len(em.Calls[0]) != 500 {
		t.Errorf("resume embedding got %d chars, want 500", len(em.Calls[0]))
	}
	for i, want := range []string{"cloud", "data", "business"} {
		if em.Calls[i+1] != want {
			t.Errorf("call %d embedded %q, want %q", i+1, em.Calls[i+1], want)
		}
	}
}

func TestMatch_Failures(t *testing.T) {
	tests := []struct {
		name      string
		resume    string
		cat       *catalog.Catalog
		embed     func(context.Context, string) ([]float32, error)
		check     func(error) bool
		wantCalls int
	}{
		{
			name:      "empty resume",
			resume:    "",
			cat:       testCatalog(),
			check:     func(err error) bool { return errors.Is(err, matchModel.ErrEmptyDocument) },
			wantCalls: 0,
		},
		{
			name:   "resume embedding fails",
			resume: "python",
			cat:    testCatalog(),
			embed: func(context.Context, string) ([]float32, error) {
				return nil, errors.New("throttled")
			},
			check:     matchModel.IsUpstreamError,
			wantCalls: 1,
		},
		{
			name:   "second posting embedding fails",
			resume: "python",
			cat:    testCatalog(),
			embed: func(_ context.Context, text string) ([]float32, error) {
				if text == "data" {
					return nil, errors.New("service unavailable")
				}
				return []float32{1, 0}, nil
			},
			check:     matchModel.IsUpstreamError,
			wantCalls: 3,
		},
		{
			name:   "posting embedding has NaN",
			resume: "python",
			cat:    testCatalog(),
			embed: func(_ context.Context, text string) ([]float32, error) {
				if text == "cloud" {
					return []float32{float32(math.NaN()), 1}, nil
				}
				return []float32{1, 0}, nil
			},
			check: func(err error) bool {
				return matchModel.IsUpstreamError(err) && errors.Is(err, matchModel.ErrNonFiniteVector)
			},
			wantCalls: 2,
		},
		{
			name:   "resume embedding has Inf",
			resume: "python",
			cat:    testCatalog(),
			embed: func(context.Context, string) ([]float32, error) {
				return []float32{float32(math.Inf(1)), 0}, nil
			},
			check: func(err error) bool {
				return matchModel.IsUpstreamError(err) && errors.Is(err, matchModel.ErrNonFiniteVector)
			},
			wantCalls: 1,
		},
		{
			name:   "dimension mismatch",
			resume: "python",
			cat:    testCatalog(),
			embed: func(_ context.Context, text string) ([]float32, error) {
				if text == "cloud" {
					return []float32{1, 0, 0}, nil
				}
				return []float32{1, 0}, nil
			},
			check:     func(err error) bool { return errors.Is(err, matchModel.ErrDimensionMismatch) },
			wantCalls: 2,
		},
		{
			name:   "zero vector",
			resume: "python",
			cat:    testCatalog(),
			embed: func(context.Context, string) ([]float32, error) {
				return []float32{0, 0}, nil
			},
			check:     func(err error) bool { return errors.Is(err, matchModel.ErrZeroNorm) },
			wantCalls: 2,
		},
		{
			name:      "invalid catalog",
			resume:    "python",
			cat:       &catalog.Catalog{Postings: []catalog.JobPosting{{Title: "No description"}}},
			check:     func(err error) bool { return errors.Is(err, catalog.ErrInvalidCatalog) },
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := &MockEmbedder{OnGetEmbedding: tt.embed}
			got, err := match.NewEngine(em, 500).Match(context.Background(), tt.resume, tt.cat)
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if got != nil {
				t.Errorf("expected no partial results, got %v", got)
			}
			if em.CallCount() != tt.wantCalls {
				t.Errorf("embedding calls got %d, want %d", em.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestMatch_EmptyCatalog(t *testing.T) {
	em := &MockEmbedder{}
	got, err := match.NewEngine(em, 0).Match(context.Background(), "python", &catalog.Catalog{})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestMatch_DefaultCatalog(t *testing.T) {
	em := &MockEmbedder{}
	cat := catalog.Default()
	got, err := match.NewEngine(em, 500).Match(context.Background(), "Python developer with AWS", cat)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(got) != cat.Len() {
		t.Errorf("expected %d results, got %d", cat.Len(), len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].MatchPercentage < got[i].MatchPercentage {
			t.Errorf("results not sorted at %d", i)
		}
	}
}
