package scoring

import "strings"

var toneMarkers = map[string][]string{
	"formal":       {"furthermore", "consequently", "therefore", "moreover", "regarding"},
	"casual":       {"hey", "awesome", "cool", "stuff", "really", "pretty"},
	"professional": {"solution", "service", "expertise", "industry", "approach"},
	"friendly":     {"welcome", "enjoy", "love", "happy", "together", "thanks"},
}

// personalizationScorer measures how well the content fits the user the
// candidate was generated for. With no user context the dimension is neutral.
type personalizationScorer struct{}

func NewPersonalizationScorer() SubScorer { return &personalizationScorer{} }

func (s *personalizationScorer) Name() string { return "personalization" }

func (s *personalizationScorer) Score(in *Input) Result {
	uc := in.Candidate.UserContext
	if uc == nil || (len(uc.Interests) == 0 && uc.PreferredTone == "" && uc.DifficultyLevel == "") {
		return Result{
			Score:     0.5,
			Available: true,
			Details:   map[string]interface{}{"reason": "no user context"},
		}
	}

	contentSet := wordSet(in.Words)
	lowerText := strings.ToLower(in.FullText)

	interest := interestAlignment(uc.Interests, contentSet)
	tone := toneMatch(uc.PreferredTone, contentSet)
	difficulty := difficultyMatch(uc.DifficultyLevel, in)
	elements := personalizedElements(uc.Interests, lowerText)

	score := clamp01(0.3*interest + 0.25*tone + 0.25*difficulty + 0.2*elements)

	return Result{
		Score:     score,
		Available: true,
		Details: map[string]interface{}{
			"interest_alignment":    interest,
			"tone_match":            tone,
			"difficulty_match":      difficulty,
			"personalized_elements": elements,
		},
	}
}

// interestAlignment is the weight-proportional share of declared interests
// whose terms show up in the content.
func interestAlignment(interests map[string]float64, contentSet map[string]bool) float64 {
	if len(interests) == 0 {
		return 0.5
	}
	var totalWeight, matchedWeight float64
	for interest, weight := range interests {
		if weight <= 0 {
			continue
		}
		totalWeight += weight
		for _, term := range keywords(tokenize(interest)) {
			if contentSet[term] {
				matchedWeight += weight
				break
			}
		}
	}
	if totalWeight == 0 {
		return 0.5
	}
	return clamp01(matchedWeight / totalWeight)
}

func toneMatch(preferredTone string, contentSet map[string]bool) float64 {
	if preferredTone == "" {
		return 0.5
	}
	markers, ok := toneMarkers[strings.ToLower(preferredTone)]
	if !ok {
		return 0.5
	}
	matches := 0
	for _, m := range markers {
		if contentSet[m] {
			matches++
		}
	}
	if matches == 0 {
		return 0.4
	}
	return clamp01(0.6 + 0.2*float64(matches))
}

// difficultyMatch compares the estimated reading difficulty against the
// user's preference. Adjacent levels score partial credit.
func difficultyMatch(preferred string, in *Input) float64 {
	if preferred == "" {
		return 0.5
	}

	levels := map[string]int{"beginner": 0, "intermediate": 1, "advanced": 2}
	want, ok := levels[strings.ToLower(preferred)]
	if !ok {
		return 0.5
	}

	got := estimateDifficulty(in)
	switch diff := abs(want - got); diff {
	case 0:
		return 1.0
	case 1:
		return 0.6
	default:
		return 0.3
	}
}

func estimateDifficulty(in *Input) int {
	if len(in.Words) == 0 || len(in.Sentences) == 0 {
		return 1
	}
	avgSentence := float64(len(in.Words)) / float64(len(in.Sentences))
	complex := 0
	for _, w := range in.Words {
		if countSyllables(w) >= 3 {
			complex++
		}
	}
	complexFrac := float64(complex) / float64(len(in.Words))

	switch {
	case avgSentence > 20 || complexFrac > 0.2:
		return 2
	case avgSentence < 12 && complexFrac < 0.1:
		return 0
	default:
		return 1
	}
}

// personalizedElements rewards verbatim mentions of the user's interests.
func personalizedElements(interests map[string]float64, lowerText string) float64 {
	mentions := 0
	for interest := range interests {
		if strings.Contains(lowerText, strings.ToLower(interest)) {
			mentions++
		}
	}
	return clamp01(float64(mentions) / 2.0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
