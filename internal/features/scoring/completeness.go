package scoring

import "strings"

var requiredComponents = []string{"hero", "article", "cta"}

var ctaVerbs = []string{"get", "start", "try", "learn", "discover", "download", "sign", "join", "contact", "subscribe", "buy", "book"}

// completenessScorer checks the candidate has all required components, enough
// body depth, coverage of the query's information need, and a call to action.
type completenessScorer struct{}

func NewCompletenessScorer() SubScorer { return &completenessScorer{} }

func (s *completenessScorer) Name() string { return "completeness" }

func (s *completenessScorer) Score(in *Input) Result {
	content := in.Candidate.Content

	present := 0
	var missing []string
	for _, name := range requiredComponents {
		if componentHasText(content[name]) {
			present++
		} else {
			missing = append(missing, name)
		}
	}
	componentScore := float64(present) / float64(len(requiredComponents))

	// Depth: capped word count normalization.
	depth := clamp01(float64(len(in.Words)) / 500.0)

	// Information coverage: distinct query keywords answered by the body.
	coverage := 0.5
	if len(in.QueryWords) > 0 {
		contentSet := wordSet(in.Words)
		covered := 0
		for w := range wordSet(in.QueryWords) {
			if contentSet[w] {
				covered++
			}
		}
		coverage = float64(covered) / float64(len(wordSet(in.QueryWords)))
	}

	cta := ctaPresence(content["cta"])

	score := clamp01(0.3*componentScore + 0.3*depth + 0.25*coverage + 0.15*cta)

	details := map[string]interface{}{
		"components_present":   present,
		"components_required":  len(requiredComponents),
		"content_depth":        depth,
		"information_coverage": coverage,
		"cta_presence":         cta,
		"word_count":           len(in.Words),
	}
	if len(missing) > 0 {
		details["missing_components"] = missing
	}

	return Result{Score: score, Available: true, Details: details, Flags: missing}
}

func componentHasText(fields map[string]string) bool {
	for k, v := range fields {
		if !isURLField(k) && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// ctaPresence scores 1.0 for a CTA with an action verb, 0.5 for any non-empty
// CTA text, 0 otherwise.
func ctaPresence(fields map[string]string) float64 {
	if !componentHasText(fields) {
		return 0
	}
	for k, v := range fields {
		if isURLField(k) {
			continue
		}
		set := wordSet(tokenize(v))
		for _, verb := range ctaVerbs {
			if set[verb] {
				return 1.0
			}
		}
	}
	return 0.5
}
