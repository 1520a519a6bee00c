package scoring

import (
	"context"
	"strings"
	"testing"

	"content-review/internal/common/errs"
	"content-review/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Weights: config.ScoringWeights{
			Relevance:       0.25,
			Personalization: 0.20,
			Completeness:    0.20,
			Readability:     0.15,
			Safety:          0.10,
			Engagement:      0.10,
		},
		Thresholds: config.RoutingThresholds{
			AutoApprove:    0.85,
			FastTrack:      0.75,
			StandardReview: 0.60,
			DetailedReview: 0.40,
		},
	}
}

func newService(t *testing.T) ScoringService {
	t.Helper()
	return NewScoringService(testConfig(), nil, zap.NewNop())
}

// wellFormedCandidate builds a complete candidate: hero, article and cta
// components, roughly 600 words of clean prose answering the query.
func wellFormedCandidate() *ContentCandidate {
	paragraph := "Our travel guide helps you plan a coastal hiking trip with ease. " +
		"Pick a trail that matches your pace and pack layers for changing weather. " +
		"Local rangers update trail conditions weekly so you can check before you go. " +
		"Most visitors enjoy the northern loop because the views reward a modest climb. "

	var article strings.Builder
	for i := 0; i < 14; i++ {
		article.WriteString(paragraph)
		article.WriteString("\n\n")
	}

	return &ContentCandidate{
		ContentID:   "cand-1",
		SearchQuery: "coastal hiking trip guide",
		Content: ContentMap{
			"hero": {
				"title":    "Plan Your Coastal Hiking Trip",
				"subtitle": "A practical guide to trails, gear and timing",
			},
			"article": {
				"body": article.String(),
			},
			"cta": {
				"text": "Download the full guide and start planning your trip today",
			},
		},
	}
}

func TestAssessValidation(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	_, err := service.Assess(ctx, nil)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = service.Assess(ctx, &ContentCandidate{SearchQuery: "q"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = service.Assess(ctx, &ContentCandidate{
		Content: ContentMap{"hero": {"title": "x"}},
	})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestAssessWellFormedContent(t *testing.T) {
	service := newService(t)

	got, err := service.Assess(context.Background(), wellFormedCandidate())
	require.NoError(t, err)

	require.True(t, got.Success)
	assert.GreaterOrEqual(t, got.OverallScore, 0.0)
	assert.LessOrEqual(t, got.OverallScore, 1.0)

	// Without a user context personalization is exactly neutral.
	assert.InDelta(t, 0.5, got.ComponentScores["personalization"], 1e-9)

	// All three required components present with substantial depth.
	assert.GreaterOrEqual(t, got.ComponentScores["completeness"], 0.8)

	// Clean prose trips none of the safety checks.
	assert.GreaterOrEqual(t, got.ComponentScores["safety"], 0.9)

	assert.Len(t, got.ComponentScores, 6)
	assert.NotEqual(t, RecommendAutoReject, got.Recommendation)
}

func TestAssessScoresStayInRange(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	candidates := []*ContentCandidate{
		wellFormedCandidate(),
		{
			SearchQuery: "anything",
			Content:     ContentMap{"hero": {"title": "x"}},
		},
		{
			SearchQuery: "BUY NOW limited offer",
			Content: ContentMap{
				"cta": {"text": "BUY NOW!! ACT FAST!! GUARANTEED RESULTS!!"},
			},
		},
	}

	for _, candidate := range candidates {
		got, err := service.Assess(ctx, candidate)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.OverallScore, 0.0)
		assert.LessOrEqual(t, got.OverallScore, 1.0)
		for name, score := range got.ComponentScores {
			assert.GreaterOrEqual(t, score, 0.0, "component %s", name)
			assert.LessOrEqual(t, score, 1.0, "component %s", name)
		}
	}
}

func TestAssessIsDeterministic(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	first, err := service.Assess(ctx, wellFormedCandidate())
	require.NoError(t, err)
	second, err := service.Assess(ctx, wellFormedCandidate())
	require.NoError(t, err)

	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.ComponentScores, second.ComponentScores)
	assert.Equal(t, first.Recommendation, second.Recommendation)
}

func TestUnavailableScorerIsRenormalizedAway(t *testing.T) {
	cfg := testConfig()
	service := &ScoringServiceImpl{
		thresholds: cfg.Thresholds,
		logger:     zap.NewNop(),
		scorers: []weightedScorer{
			{fixedScorer{name: "a", score: 0.8}, 0.5},
			{NewNotImplementedScorer("b"), 0.5},
		},
	}

	got, err := service.Assess(context.Background(), wellFormedCandidate())
	require.NoError(t, err)

	// The unavailable scorer contributes its neutral detail but no weight:
	// the overall score is the remaining scorer's value, not dragged by 0.5.
	assert.InDelta(t, 0.8, got.OverallScore, 1e-9)
	assert.Contains(t, got.ComponentScores, "b")
}

func TestPanickingScorerDegradesAssessment(t *testing.T) {
	cfg := testConfig()
	service := &ScoringServiceImpl{
		thresholds: cfg.Thresholds,
		logger:     zap.NewNop(),
		scorers: []weightedScorer{
			{panicScorer{}, 1.0},
		},
	}

	got, err := service.Assess(context.Background(), wellFormedCandidate())
	require.NoError(t, err)

	assert.False(t, got.Success)
	assert.Equal(t, 0.0, got.OverallScore)
	assert.Equal(t, RecommendManualReview, got.Recommendation)
}

func TestSuggestionsForWeakDimensions(t *testing.T) {
	service := newService(t)

	// Thin, off-query content produces low sub-scores with suggestions.
	got, err := service.Assess(context.Background(), &ContentCandidate{
		SearchQuery: "quarterly financial planning",
		Content:     ContentMap{"hero": {"title": "cats"}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ImprovementSuggestions)
	for _, s := range got.ImprovementSuggestions {
		assert.NotEmpty(t, s.Category)
		assert.NotEmpty(t, s.Priority)
		assert.NotEmpty(t, s.Suggestion)
	}
}

type fixedScorer struct {
	name  string
	score float64
}

func (f fixedScorer) Name() string { return f.name }

func (f fixedScorer) Score(_ *Input) Result {
	return Result{Score: f.score, Available: true}
}

type panicScorer struct{}

func (panicScorer) Name() string { return "panicky" }

func (panicScorer) Score(_ *Input) Result { panic("boom") }
