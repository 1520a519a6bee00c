package scoring

// relevanceScorer measures how well the content answers the originating
// search query using lexical proxies: keyword overlap, Jaccard similarity of
// the word sets, and query-keyword density scaled by a length factor that
// penalizes very short content.
type relevanceScorer struct{}

func NewRelevanceScorer() SubScorer { return &relevanceScorer{} }

func (s *relevanceScorer) Name() string { return "relevance" }

func (s *relevanceScorer) Score(in *Input) Result {
	if len(in.QueryWords) == 0 || len(in.Words) == 0 {
		return Result{
			Score:     0,
			Available: true,
			Details:   map[string]interface{}{"reason": "empty query or content"},
		}
	}

	contentSet := wordSet(in.Words)
	querySet := wordSet(in.QueryWords)

	// Fraction of distinct query keywords present in the content.
	matched := 0
	for w := range querySet {
		if contentSet[w] {
			matched++
		}
	}
	overlap := float64(matched) / float64(len(querySet))

	// Jaccard similarity over the keyword sets stands in for semantic
	// similarity.
	contentKeySet := wordSet(in.Keywords)
	intersection := 0
	for w := range querySet {
		if contentKeySet[w] {
			intersection++
		}
	}
	union := len(contentKeySet) + len(querySet) - intersection
	similarity := 0.0
	if union > 0 {
		similarity = float64(intersection) / float64(union)
	}

	// Topic coherence: density of query keywords in the body, scaled down
	// for very short content.
	occurrences := countOccurrences(in.Words, querySet)
	density := float64(occurrences) / float64(len(in.Words))
	lengthFactor := clamp01(float64(len(in.Words)) / 300.0)
	coherence := clamp01(density*10) * lengthFactor

	score := clamp01(0.4*overlap + 0.4*similarity + 0.2*coherence)

	return Result{
		Score:     score,
		Available: true,
		Details: map[string]interface{}{
			"keyword_overlap":    overlap,
			"lexical_similarity": similarity,
			"topic_coherence":    coherence,
			"matched_keywords":   matched,
		},
	}
}
