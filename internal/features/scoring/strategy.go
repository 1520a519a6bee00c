package scoring

// Input is the pre-tokenized view of one candidate shared by all sub-scorers
// so each strategy doesn't re-run the lexical pipeline.
type Input struct {
	Candidate  *ContentCandidate
	FullText   string
	Words      []string
	Keywords   []string
	Sentences  []string
	Paragraphs []string
	QueryWords []string
}

// Result is the outcome of one sub-scorer run. When Available is false the
// sub-score is excluded from the weighted overall (its weight is not
// normalized in) and the detail map carries the reason.
type Result struct {
	Score     float64
	Available bool
	Details   map[string]interface{}
	Flags     []string
}

// SubScorer is one pluggable quality dimension. Implementations must be pure
// over Input and must not panic on degenerate content; the engine still
// recovers if one does.
type SubScorer interface {
	Name() string
	Score(in *Input) Result
}

// notImplementedScorer is the explicit placeholder strategy: a dimension that
// is registered but has no real heuristic yet scores neutral and says so,
// instead of silently faking a high score.
type notImplementedScorer struct {
	name string
}

func NewNotImplementedScorer(name string) SubScorer {
	return &notImplementedScorer{name: name}
}

func (s *notImplementedScorer) Name() string { return s.name }

func (s *notImplementedScorer) Score(_ *Input) Result {
	return Result{
		Score:     0.5,
		Available: false,
		Details:   map[string]interface{}{"status": "not_implemented"},
	}
}

// NewInput builds the shared lexical view of a candidate.
func NewInput(candidate *ContentCandidate) *Input {
	fullText := flatten(candidate.Content)
	words := tokenize(fullText)
	return &Input{
		Candidate:  candidate,
		FullText:   fullText,
		Words:      words,
		Keywords:   keywords(words),
		Sentences:  splitSentences(fullText),
		Paragraphs: splitParagraphs(fullText),
		QueryWords: keywords(tokenize(candidate.SearchQuery)),
	}
}
