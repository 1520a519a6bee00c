package scoring

import "math"

const optimalSentenceLength = 17.5

// readabilityScorer combines a normalized Flesch reading ease, distance from
// the optimal sentence length, complex-word fraction, and paragraph shape.
type readabilityScorer struct{}

func NewReadabilityScorer() SubScorer { return &readabilityScorer{} }

func (s *readabilityScorer) Name() string { return "readability" }

func (s *readabilityScorer) Score(in *Input) Result {
	if len(in.Words) == 0 || len(in.Sentences) == 0 {
		return Result{
			Score:     0,
			Available: true,
			Details:   map[string]interface{}{"reason": "no sentences"},
		}
	}

	words := float64(len(in.Words))
	sentences := float64(len(in.Sentences))

	syllables := 0
	complexWords := 0
	for _, w := range in.Words {
		n := countSyllables(w)
		syllables += n
		if n >= 3 {
			complexWords++
		}
	}

	// Flesch reading ease, clamped to [0,100] then normalized.
	flesch := 206.835 - 1.015*(words/sentences) - 84.6*(float64(syllables)/words)
	fleschScore := clamp01(flesch / 100.0)

	// Linear penalty for deviating from ~17.5 words per sentence.
	avgSentence := words / sentences
	sentenceScore := clamp01(1 - math.Abs(avgSentence-optimalSentenceLength)/optimalSentenceLength)

	// Complex-word fraction, penalty capped at 30%.
	complexFrac := float64(complexWords) / words
	complexScore := 1 - math.Min(complexFrac, 0.3)/0.3

	paragraphScore := paragraphStructure(in.Paragraphs)

	score := clamp01(0.4*fleschScore + 0.3*sentenceScore + 0.2*complexScore + 0.1*paragraphScore)

	return Result{
		Score:     score,
		Available: true,
		Details: map[string]interface{}{
			"flesch_reading_ease":   flesch,
			"avg_sentence_length":   avgSentence,
			"complex_word_fraction": complexFrac,
			"paragraph_structure":   paragraphScore,
		},
	}
}

// paragraphStructure rewards paragraphs of 2-5 sentences.
func paragraphStructure(paragraphs []string) float64 {
	if len(paragraphs) == 0 {
		return 0.5
	}
	wellFormed := 0
	for _, p := range paragraphs {
		n := len(splitSentences(p))
		if n >= 2 && n <= 5 {
			wellFormed++
		}
	}
	return float64(wellFormed) / float64(len(paragraphs))
}
