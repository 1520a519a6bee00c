package scoring

import (
	"context"
	"fmt"

	"content-review/internal/common/errs"
	"content-review/internal/config"

	"go.uber.org/zap"
)

// ScoringService assesses one content candidate. Assess is pure and
// deterministic over its input and never lets a sub-scorer failure escape:
// an internal failure yields the degraded manual-review result instead.
type ScoringService interface {
	Assess(ctx context.Context, candidate *ContentCandidate) (*QualityAssessment, error)
}

type weightedScorer struct {
	scorer SubScorer
	weight float64
}

type ScoringServiceImpl struct {
	scorers    []weightedScorer
	thresholds config.RoutingThresholds
	logger     *zap.Logger
}

// NewScoringService wires the six sub-scorer strategies with the configured
// weights. The scripted safety rule is optional.
func NewScoringService(cfg *config.Config, script *ScriptCheck, logger *zap.Logger) ScoringService {
	w := cfg.Weights
	return &ScoringServiceImpl{
		thresholds: cfg.Thresholds,
		logger:     logger,
		scorers: []weightedScorer{
			{NewRelevanceScorer(), w.Relevance},
			{NewPersonalizationScorer(), w.Personalization},
			{NewCompletenessScorer(), w.Completeness},
			{NewReadabilityScorer(), w.Readability},
			{NewSafetyScorer(script), w.Safety},
			{NewEngagementScorer(), w.Engagement},
		},
	}
}

func (s *ScoringServiceImpl) Assess(_ context.Context, candidate *ContentCandidate) (*QualityAssessment, error) {
	if candidate == nil {
		return nil, errs.Validation("candidate is required")
	}
	if len(candidate.Content) == 0 {
		return nil, errs.Validation("content is required")
	}
	if candidate.SearchQuery == "" {
		return nil, errs.Validation("search_query is required")
	}

	in := NewInput(candidate)

	assessment := &QualityAssessment{
		Success:           true,
		ComponentScores:   make(map[string]float64, len(s.scorers)),
		AssessmentDetails: make(map[string]map[string]interface{}, len(s.scorers)),
	}

	var weighted, totalWeight float64

	for _, ws := range s.scorers {
		result, err := s.runScorer(ws.scorer, in)
		if err != nil {
			// A broken sub-scorer must never fall through to
			// auto-approval.
			s.logger.Error("sub-scorer failed, returning degraded assessment",
				zap.String("scorer", ws.scorer.Name()),
				zap.String("content_id", candidate.ContentID),
				zap.Error(err))
			return degradedAssessment(ws.scorer.Name(), err), nil
		}

		score := clamp01(result.Score)
		assessment.ComponentScores[ws.scorer.Name()] = score

		details := result.Details
		if details == nil {
			details = map[string]interface{}{}
		}
		if len(result.Flags) > 0 {
			details["flags"] = result.Flags
		}
		assessment.AssessmentDetails[ws.scorer.Name()] = details

		if result.Available {
			weighted += ws.weight * score
			totalWeight += ws.weight
		}
	}

	if totalWeight > 0 {
		assessment.OverallScore = clamp01(weighted / totalWeight)
	}

	assessment.Recommendation = s.recommend(assessment.OverallScore)
	assessment.ImprovementSuggestions = buildSuggestions(assessment)

	return assessment, nil
}

// runScorer isolates sub-scorer panics.
func (s *ScoringServiceImpl) runScorer(scorer SubScorer, in *Input) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Internal("sub-scorer %s panicked: %v", scorer.Name(), r)
		}
	}()
	result = scorer.Score(in)
	return result, nil
}

func (s *ScoringServiceImpl) recommend(score float64) Recommendation {
	switch {
	case score >= s.thresholds.AutoApprove:
		return RecommendAutoApprove
	case score < s.thresholds.DetailedReview:
		return RecommendAutoReject
	default:
		return RecommendManualReview
	}
}

func degradedAssessment(scorerName string, err error) *QualityAssessment {
	return &QualityAssessment{
		Success:         false,
		OverallScore:    0,
		Recommendation:  RecommendManualReview,
		ComponentScores: map[string]float64{},
		AssessmentDetails: map[string]map[string]interface{}{
			scorerName: {"status": "internal_error", "error": err.Error()},
		},
	}
}

type suggestionRule struct {
	category   string
	bar        float64
	priority   string
	suggestion string
}

var suggestionRules = []suggestionRule{
	{"relevance", 0.7, "high", "Align the content more closely with the search query; use its key terms in headings and body copy."},
	{"personalization", 0.6, "medium", "Reference the user's stated interests and match the preferred tone and difficulty."},
	{"readability", 0.7, "medium", "Shorten sentences toward ~17 words, reduce complex vocabulary, and break up long paragraphs."},
	{"safety", 0.8, "high", "Remove flagged terms and unsupported claims before publication."},
	{"engagement", 0.6, "low", "Strengthen the headline, add visual elements, and sharpen the call to action."},
}

func buildSuggestions(a *QualityAssessment) []Suggestion {
	var suggestions []Suggestion
	for _, rule := range suggestionRules {
		score, ok := a.ComponentScores[rule.category]
		if !ok || score >= rule.bar {
			continue
		}

		var details []string
		if d, ok := a.AssessmentDetails[rule.category]; ok {
			if flags, ok := d["flags"].([]string); ok {
				details = flags
			}
		}
		details = append(details, fmt.Sprintf("%s score %.2f below %.2f", rule.category, score, rule.bar))

		suggestions = append(suggestions, Suggestion{
			Category:   rule.category,
			Priority:   rule.priority,
			Suggestion: rule.suggestion,
			Details:    details,
		})
	}
	return suggestions
}
