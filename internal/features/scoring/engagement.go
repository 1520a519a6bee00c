package scoring

import (
	"strings"
	"unicode"
)

var powerWords = []string{"proven", "essential", "ultimate", "complete", "simple", "effective", "best", "top", "new", "guide"}

var urgencyWords = []string{"today", "now", "free"}

var emotionalWords = []string{
	"amazing", "exciting", "love", "enjoy", "discover", "imagine", "powerful",
	"inspiring", "remarkable", "delightful", "confident", "transform",
}

// engagementScorer estimates how likely the content is to hold attention:
// headline strength, visual elements, CTA strength, structure, and emotional
// appeal.
type engagementScorer struct{}

func NewEngagementScorer() SubScorer { return &engagementScorer{} }

func (s *engagementScorer) Name() string { return "engagement" }

func (s *engagementScorer) Score(in *Input) Result {
	content := in.Candidate.Content

	headline := headlineStrength(content["hero"])
	visual := visualPresence(content)
	cta := ctaStrength(content["cta"])
	structure := structuralEngagement(in)
	emotional := emotionalAppeal(in)

	score := clamp01(0.25*headline + 0.2*visual + 0.2*cta + 0.2*structure + 0.15*emotional)

	return Result{
		Score:     score,
		Available: true,
		Details: map[string]interface{}{
			"headline_strength":  headline,
			"visual_elements":    visual,
			"cta_strength":       cta,
			"structure":          structure,
			"emotional_appeal":   emotional,
		},
	}
}

func headlineStrength(hero map[string]string) float64 {
	headline := ""
	for _, key := range []string{"title", "headline", "heading"} {
		if v := strings.TrimSpace(hero[key]); v != "" {
			headline = v
			break
		}
	}
	if headline == "" {
		// Fall back to the first text field of the hero.
		for k, v := range hero {
			if !isURLField(k) && strings.TrimSpace(v) != "" {
				headline = strings.TrimSpace(v)
				break
			}
		}
	}
	if headline == "" {
		return 0
	}

	score := 0.3
	if n := len(headline); n >= 30 && n <= 70 {
		score += 0.3
	} else if n >= 15 && n <= 90 {
		score += 0.15
	}

	lower := strings.ToLower(headline)
	for _, w := range powerWords {
		if strings.Contains(lower, w) {
			score += 0.2
			break
		}
	}
	if strings.ContainsFunc(headline, unicode.IsDigit) {
		score += 0.1
	}
	if strings.HasSuffix(strings.TrimSpace(headline), "?") {
		score += 0.1
	}
	return clamp01(score)
}

func visualPresence(content ContentMap) float64 {
	found := 0
	for _, fields := range content {
		for k, v := range fields {
			if isURLField(k) && strings.TrimSpace(v) != "" {
				found++
			}
		}
	}
	return clamp01(float64(found) / 2.0)
}

func ctaStrength(cta map[string]string) float64 {
	if !componentHasText(cta) {
		return 0
	}

	score := 0.4
	for k, v := range cta {
		if isURLField(k) {
			continue
		}
		set := wordSet(tokenize(v))
		for _, verb := range ctaVerbs {
			if set[verb] {
				score += 0.4
				break
			}
		}
		for _, w := range urgencyWords {
			if set[w] {
				score += 0.2
				break
			}
		}
		break
	}
	return clamp01(score)
}

// structuralEngagement rewards content that is broken up into several
// digestible paragraphs.
func structuralEngagement(in *Input) float64 {
	n := len(in.Paragraphs)
	if n == 0 {
		return 0
	}
	avgWords := float64(len(in.Words)) / float64(n)

	score := 0.3
	if n >= 3 {
		score += 0.4
	} else if n == 2 {
		score += 0.2
	}
	if avgWords <= 120 {
		score += 0.3
	}
	return clamp01(score)
}

func emotionalAppeal(in *Input) float64 {
	set := wordSet(in.Words)
	matches := 0
	for _, w := range emotionalWords {
		if set[w] {
			matches++
		}
	}
	return clamp01(float64(matches) / 4.0)
}
