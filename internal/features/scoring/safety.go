package scoring

import (
	"math"
	"strings"
)

var prohibitedTerms = []string{
	"violence", "weapon", "illegal", "drugs", "gambling", "hateful", "explicit",
}

var spamPhrases = []string{
	"buy now", "click here", "limited time", "act now", "100% free", "risk free", "double your",
}

var inappropriateTerms = []string{
	"damn", "hell", "stupid", "idiot", "crap",
}

var unsupportedClaimMarkers = []string{
	"guaranteed", "miracle", "scientifically proven", "always works", "never fails", "everyone agrees",
}

var biasedTerms = []string{
	"obviously", "clearly everyone", "any idiot", "real men", "normal people", "those people",
}

type safetyCheck struct {
	name   string
	weight float64
	run    func(in *Input, lowerText string) (float64, []string)
}

// safetyScorer runs the five lexical safety checks and an optional scripted
// rule. Each check returns near 1.0 when nothing is flagged and lists the
// concrete flags when it is not.
type safetyScorer struct {
	checks []safetyCheck
	script *ScriptCheck
}

func NewSafetyScorer(script *ScriptCheck) SubScorer {
	return &safetyScorer{
		script: script,
		checks: []safetyCheck{
			{name: "prohibited_content", weight: 0.3, run: checkProhibited},
			{name: "spam", weight: 0.2, run: checkSpam},
			{name: "language_appropriateness", weight: 0.2, run: checkLanguage},
			{name: "factual_accuracy", weight: 0.15, run: checkFactualIndicators},
			{name: "bias", weight: 0.15, run: checkBias},
		},
	}
}

func (s *safetyScorer) Name() string { return "safety" }

func (s *safetyScorer) Score(in *Input) Result {
	lowerText := strings.ToLower(in.FullText)

	details := make(map[string]interface{}, len(s.checks)+1)
	var allFlags []string
	var weighted, totalWeight float64

	for _, check := range s.checks {
		score, flags := check.run(in, lowerText)
		weighted += check.weight * score
		totalWeight += check.weight
		details[check.name] = map[string]interface{}{"score": score, "flags": flags}
		allFlags = append(allFlags, flags...)
	}

	score := clamp01(weighted / totalWeight)

	if s.script != nil {
		scriptScore, scriptFlags, err := s.script.Run(in.FullText)
		if err != nil {
			details["custom_rules"] = map[string]interface{}{"status": "script_error", "error": err.Error()}
		} else {
			details["custom_rules"] = map[string]interface{}{"score": scriptScore, "flags": scriptFlags}
			allFlags = append(allFlags, scriptFlags...)
			// A scripted rule can only tighten the verdict.
			score = math.Min(score, clamp01(scriptScore))
		}
	}

	return Result{Score: score, Available: true, Details: details, Flags: allFlags}
}

func checkProhibited(_ *Input, lowerText string) (float64, []string) {
	score := 1.0
	var flags []string
	for _, term := range prohibitedTerms {
		if strings.Contains(lowerText, term) {
			score -= 0.4
			flags = append(flags, "prohibited term: "+term)
		}
	}
	return clamp01(score), flags
}

func checkSpam(in *Input, lowerText string) (float64, []string) {
	score := 1.0
	var flags []string

	for _, phrase := range spamPhrases {
		if strings.Contains(lowerText, phrase) {
			score -= 0.2
			flags = append(flags, "spam phrase: "+phrase)
		}
	}

	if n := strings.Count(in.FullText, "!!"); n > 0 {
		score -= 0.15
		flags = append(flags, "repeated exclamation marks")
	}

	if capsRatio(in.FullText) > 0.3 {
		score -= 0.2
		flags = append(flags, "excessive capitalization")
	}

	return clamp01(score), flags
}

func checkLanguage(_ *Input, lowerText string) (float64, []string) {
	score := 1.0
	var flags []string
	set := wordSet(tokenize(lowerText))
	for _, term := range inappropriateTerms {
		if set[term] {
			score -= 0.25
			flags = append(flags, "inappropriate language: "+term)
		}
	}
	return clamp01(score), flags
}

// checkFactualIndicators penalizes unsupported absolute claims; it is an
// indicator, not fact checking.
func checkFactualIndicators(_ *Input, lowerText string) (float64, []string) {
	score := 1.0
	var flags []string
	for _, marker := range unsupportedClaimMarkers {
		if strings.Contains(lowerText, marker) {
			score -= 0.2
			flags = append(flags, "unsupported claim marker: "+marker)
		}
	}
	return clamp01(score), flags
}

func checkBias(_ *Input, lowerText string) (float64, []string) {
	score := 1.0
	var flags []string
	for _, term := range biasedTerms {
		if strings.Contains(lowerText, term) {
			score -= 0.25
			flags = append(flags, "loaded phrasing: "+term)
		}
	}
	return clamp01(score), flags
}

func capsRatio(text string) float64 {
	letters, upper := 0, 0
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}
